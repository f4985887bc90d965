// internal/auth/provider.go
package auth

import (
	"context"
	"errors"
)

// ErrNoUser is returned when a provider accepts the token but yields no user.
var ErrNoUser = errors.New("identity provider returned no user")

// AppMetadata is the provider-managed metadata block of a user record.
type AppMetadata struct {
	Role string `json:"role,omitempty"`
}

// User is the identity provider's view of an account.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata"`
}

// IdentityProvider exchanges a bearer token for the user it belongs to.
type IdentityProvider interface {
	GetUser(ctx context.Context, token string) (*User, error)
}

// IdentityProviderFunc adapts a function to IdentityProvider.
type IdentityProviderFunc func(ctx context.Context, token string) (*User, error)

func (f IdentityProviderFunc) GetUser(ctx context.Context, token string) (*User, error) {
	return f(ctx, token)
}
