package logger

import "context"

type requestIDKey struct{}

// ContextWithRequestID кладёт X-Request-ID в контекст запроса
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID пусто, если запрос пришёл не через GinLoggerMiddleware
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
