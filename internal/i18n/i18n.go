package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEN = "en"
	LocaleAR = "ar"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleEN
)

// DefaultFallbackChain 多语言字段默认回退链
var DefaultFallbackChain = []string{LocaleEN, LocaleAR}

// NormalizeLocale 归一化语言标识（en-US -> en），不支持的语言返回空
func NormalizeLocale(locale string) string {
	trimmed := strings.ToLower(strings.TrimSpace(locale))
	if trimmed == "" {
		return ""
	}
	if idx := strings.IndexAny(trimmed, "-_"); idx > 0 {
		trimmed = trimmed[:idx]
	}
	switch trimmed {
	case LocaleEN, LocaleAR:
		return trimmed
	default:
		return ""
	}
}

// DetectLocale 解析 Accept-Language 头，取第一个支持的语言
func DetectLocale(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if locale := NormalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// ResolveLocale 从请求中解析语言（query lang > X-Locale > Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := NormalizeLocale(c.Query("lang")); locale != "" {
		return locale
	}
	if locale := NormalizeLocale(c.GetHeader("X-Locale")); locale != "" {
		return locale
	}
	return DetectLocale(c.GetHeader("Accept-Language"))
}

// T 翻译消息 key，未知语言回退默认语言，未知 key 原样返回
func T(locale, key string) string {
	if catalog, ok := messages[NormalizeLocale(locale)]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Tf 翻译并格式化消息
func Tf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
