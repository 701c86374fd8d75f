package core

import "context"

// Context keys for render options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	generationKey     contextKey = "generation"
)

// WithSuppressHeader marks the context so headers are not written to stderr.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withGeneration records which watch reload produced a render.
func withGeneration(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, generationKey, n)
}

// getGeneration returns the watch reload number from context
func getGeneration(ctx context.Context) (int, bool) {
	val := ctx.Value(generationKey)
	if val == nil {
		return 0, false
	}
	n, ok := val.(int)
	return n, ok
}
