package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// RedactValues returns a copy of values with secrets masked, for logging
// host info values and parameters.
func RedactValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = RedactAttributeValue(k, v)
	}
	return out
}

// TraceID returns the trace ID of the span in ctx, or "" outside a sampled span
func TraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
