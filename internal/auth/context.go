package auth

import "context"

type contextKey struct{}

// WithUsername returns a context carrying the authenticated username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKey{}, username)
}

// Username returns the authenticated username, or "" when the context
// carries none.
func Username(ctx context.Context) string {
	u, _ := ctx.Value(contextKey{}).(string)
	return u
}
