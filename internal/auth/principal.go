// internal/auth/principal.go
package auth

import "context"

// RoleAdmin is the only role the API distinguishes.
const RoleAdmin = "admin"

// Principal is the caller's identity for the duration of one request.
// Role and AppMetadataRole are kept exactly as the identity provider
// reported them.
type Principal struct {
	ID              string
	Email           string
	Role            string
	AppMetadataRole string
}

// IsAdmin reports whether either role location declares "admin".
func (p *Principal) IsAdmin() bool {
	if p == nil {
		return false
	}
	return p.Role == RoleAdmin || p.AppMetadataRole == RoleAdmin
}

// IsAdminPrincipal is IsAdmin for a possibly nil principal.
func IsAdminPrincipal(p *Principal) bool {
	return p.IsAdmin()
}

// PrincipalFromUser copies the provider's user record into a Principal.
func PrincipalFromUser(u *User) *Principal {
	if u == nil {
		return nil
	}
	return &Principal{
		ID:              u.ID,
		Email:           u.Email,
		Role:            u.Role,
		AppMetadataRole: u.AppMetadata.Role,
	}
}

type ctxKeyPrincipal struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal{}).(*Principal)
	return p, ok && p != nil
}
