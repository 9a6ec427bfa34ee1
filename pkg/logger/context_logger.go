package logger

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stashes the request id in the context so downstream loggers
// can correlate their lines with the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the stashed request id, or "" when the context
// never passed through the tracing middleware.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextLogger decorates a base logger with per-request correlation fields
// carried in the request context: the request id and, when a span is
// recording, the trace id.
type ContextLogger struct {
	base *zap.SugaredLogger
}

func NewContextLogger(base *zap.SugaredLogger) *ContextLogger {
	return &ContextLogger{base: base}
}

// With returns the base logger enriched with whatever correlation fields the
// context carries. An empty context yields the base logger unchanged.
func (cl *ContextLogger) With(ctx context.Context) *zap.SugaredLogger {
	log := cl.base
	if id := RequestIDFromContext(ctx); id != "" {
		log = log.With("request_id", id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		log = log.With("trace_id", sc.TraceID().String())
	}
	return log
}

// LogRequest writes the per-request access line.
func (cl *ContextLogger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	cl.With(ctx).Infow("http request",
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", duration.Milliseconds(),
	)
}
