package common

import "context"

// correlationKey is the context key for the request correlation ID.
type correlationKey struct{}

// WithCorrelationID returns a new context carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// GetCorrelationID extracts the correlation ID from the context, if present.
func GetCorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}
