// Package auth resolves bearer tokens against the external identity provider
// and carries the role constants used by the authorizer middleware. The
// service never issues credentials of its own.
package auth

import (
	"context"
	"errors"
)

// Application-level access tiers, stored per user in the users table. They
// are distinct from the identity provider's own account state.
const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"

	// RoleNone is what a user without a users row resolves to.
	RoleNone = ""
)

type ctxKey int

// IdentityKey is the request-context key under which the Authentication
// middleware stores the resolved identity.
const IdentityKey ctxKey = 1

// Identity is the provider-side view of the caller. The application role is
// looked up separately from the users table.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Denial is the negative outcome of the authorizer: an HTTP status and the
// message that goes into the error response body.
type Denial struct {
	Status  int
	Message string
}

// IdentityFromContext reads the identity the Authentication middleware
// stored on the request context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	return identity, ok
}

// ErrInvalidToken is returned when the provider rejects a token or a locally
// verified token fails validation.
var ErrInvalidToken = errors.New("invalid token")

// Resolver turns a raw access token into the identity it belongs to.
type Resolver interface {
	ResolveToken(ctx context.Context, token string) (Identity, error)
}
