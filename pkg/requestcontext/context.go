// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, handlers and loggers read
// them, and neither side needs net/http to do so.
package requestcontext

import "context"

type requestIDKey struct{}

// ContextKeyRequestID is exported for tests that inject values directly.
var ContextKeyRequestID = requestIDKey{}

// RequestID retrieves the request ID from the context, or "" if unset.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}
