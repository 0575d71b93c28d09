// Package auth verifies login credentials and carries the resulting
// identity through request contexts. Tokens themselves are minted and
// checked by the token package; auth decides who gets one.
package auth

import "context"

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type contextKey struct{}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// IdentityFromContext returns the identity the token gate attached, if
// any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok
}
