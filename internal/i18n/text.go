package i18n

import (
	"sort"
	"strings"
)

// LocalizedText 多语言文本（locale -> 文本）
type LocalizedText map[string]string

// NewLocalizedText 从任意 map 构建多语言文本，忽略非字符串值
func NewLocalizedText(raw map[string]interface{}) LocalizedText {
	text := make(LocalizedText, len(raw))
	for key, value := range raw {
		s, ok := value.(string)
		if !ok {
			continue
		}
		locale := NormalizeLocale(key)
		if locale == "" {
			continue
		}
		if _, exists := text[locale]; exists && strings.TrimSpace(s) == "" {
			continue
		}
		text[locale] = s
	}
	return text
}

// Resolve 按首选语言 -> 回退链 -> 任意非空值的顺序取文本
func (t LocalizedText) Resolve(preferred string, fallbackChain ...string) string {
	if len(t) == 0 {
		return ""
	}
	if value := t.lookup(preferred); value != "" {
		return value
	}
	for _, locale := range fallbackChain {
		if value := t.lookup(locale); value != "" {
			return value
		}
	}
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value := strings.TrimSpace(t[key]); value != "" {
			return value
		}
	}
	return ""
}

// Values 返回去重后的全部非空文本（按 locale 排序）
func (t LocalizedText) Values() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	seen := make(map[string]struct{}, len(keys))
	values := make([]string, 0, len(keys))
	for _, key := range keys {
		value := strings.TrimSpace(t[key])
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}

func (t LocalizedText) lookup(locale string) string {
	normalized := NormalizeLocale(locale)
	if normalized == "" {
		return ""
	}
	return strings.TrimSpace(t[normalized])
}
