package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// TemplateKey is the context key for the template name being executed
	TemplateKey contextKey = "template"
	// DebugKey is the context key for per-invocation debug logging
	DebugKey contextKey = "debug"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithTemplate adds the template name to the context
func WithTemplate(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, TemplateKey, name)
}

// GetTemplate retrieves the template name from context
func GetTemplate(ctx context.Context) string {
	if name, ok := ctx.Value(TemplateKey).(string); ok {
		return name
	}
	return ""
}

// WithDebug marks the invocation as requesting debug logging
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, DebugKey, enabled)
}

// IsDebug reports whether debug logging was requested for the invocation
func IsDebug(ctx context.Context) bool {
	enabled, _ := ctx.Value(DebugKey).(bool)
	return enabled
}

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	return uuid.NewString()
}

// EnsureRequestID returns ctx unchanged when it already carries a request ID,
// otherwise a copy carrying a fresh one.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := GetRequestID(ctx); id != "" {
		return ctx, id
	}
	id := GenerateRequestID()
	return WithRequestID(ctx, id), id
}
