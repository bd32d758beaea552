// Package auth carries the caller's identity through a request context.
// The service layer depends only on Principal; how it was obtained from
// the request (header, token) is the middleware's concern.
package auth

import (
	"context"

	"github.com/iliyamo/cinema-screening-booking/internal/schema"
)

// Principal is the identity a caller presented.
type Principal struct {
	// Credential is the user identifier as presented. It may be empty or
	// malformed; UserID validates it.
	Credential string
	// Verified is true when the identifier came from a signed token
	// rather than a bare header value.
	Verified bool
}

// UserID parses the credential into a positive user id.
func (p Principal) UserID() (uint64, error) {
	return schema.ParseUserID(p.Credential)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
