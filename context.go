package goAuthClient

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a caller-supplied correlation ID to ctx. The
// pipeline uses it instead of generating one, so a dispatch can be traced
// across the hosting application's own logs, the audit stream, and the
// configured request ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
