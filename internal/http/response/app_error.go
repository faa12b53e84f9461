package response

// AppError 服务错误映射后的响应：业务码、消息 key，以及需要记日志的原始错误
type AppError struct {
	Code int
	Key  string
	// Cause 仅内部错误携带，不返回给客户端
	Cause error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Key
	}
	return e.Key + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Internal 是否为内部错误
func (e *AppError) Internal() bool {
	return e.Cause != nil
}
