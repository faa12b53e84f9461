package shared

import (
	"github.com/freshcart-admin/internal/http/response"
	"github.com/freshcart-admin/internal/i18n"
	"github.com/freshcart-admin/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLoggerKey 中间件已把请求日志写入 request context 的标记
const RequestLoggerKey = "request_logger"

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if c.Request != nil {
		if _, ok := c.Get(RequestLoggerKey); ok {
			return logger.FromContext(c.Request.Context())
		}
	}
	if id := response.RequestID(c); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

// RespondAppError 返回服务错误映射结果，内部错误记录原始错误
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	RespondError(c, appErr.Code, appErr.Key, appErr.Cause)
}

// RespondErrorWithData 返回国际化错误响应并附带数据（如字段错误、行级错误）。
func RespondErrorWithData(c *gin.Context, code int, key string, data interface{}, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	if err != nil {
		RequestLog(c).Warnw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.ErrorWithData(c, code, msg, data)
}
