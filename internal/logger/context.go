package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

// WithContext 将带字段的 SugaredLogger 绑定到上下文
func WithContext(ctx context.Context, kv ...interface{}) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, FromContext(ctx).With(kv...))
}

// FromContext 取出上下文日志，未绑定时返回全局实例
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if log, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok && log != nil {
			return log
		}
	}
	return S()
}
