package httpclient

import "context"

type contextKey struct{}

// NewContext returns a child context carrying the shared client handle.
func NewContext(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the client stored by NewContext.
func FromContext(ctx context.Context) (Client, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(contextKey{}).(Client)
	return c, ok && c != nil
}
