package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestLoggerKey struct{}

// ContextWithLogger attaches the request-scoped logger built by the HTTP middleware.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey{}, l)
}

// FromContext returns the request logger, or a no-op logger for contexts that did
// not pass through the HTTP middleware (tests, CLI commands).
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(requestLoggerKey{}).(*zap.Logger)
	if !ok || l == nil {
		return zap.NewNop()
	}
	return l
}
