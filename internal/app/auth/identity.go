package auth

import (
	"context"
)

type profileIDKey struct{}

// WithProfileID attaches the authenticated profile ID to a context. Only the
// session middleware writes this value, and only after validating the token.
func WithProfileID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, profileIDKey{}, id)
}

// ProfileIDFromContext returns the authenticated profile ID, if any
func ProfileIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(profileIDKey{}).(int64)
	return id, ok
}
