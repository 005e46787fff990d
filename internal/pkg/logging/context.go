package logging

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// GenerateRequestID 生成新的请求 ID
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID 把请求 ID 放入 context
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext 取出请求 ID，不存在时返回空字符串
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
