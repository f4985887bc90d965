// internal/auth/resolver.go
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const bearerPrefix = "Bearer "

var errEmptyToken = errors.New("empty bearer token")

// Outcome classifies how a request's credential resolved.
type Outcome int

const (
	Anonymous Outcome = iota
	AuthenticatedNonAdmin
	AuthenticatedAdmin
	ResolutionFailed
)

func (o Outcome) String() string {
	switch o {
	case Anonymous:
		return "anonymous"
	case AuthenticatedNonAdmin:
		return "authenticated_non_admin"
	case AuthenticatedAdmin:
		return "authenticated_admin"
	case ResolutionFailed:
		return "resolution_failed"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving one request. Err is set only for
// ResolutionFailed and is never shown to the caller.
type Resolution struct {
	Outcome   Outcome
	Principal *Principal
	Err       error
}

// Resolver turns an Authorization header into a Principal.
type Resolver struct {
	provider     IdentityProvider
	timeout      time.Duration
	logger       *slog.Logger
	logDecisions bool
}

type ResolverOption func(*Resolver)

// WithTimeout bounds the identity provider call. Timeouts count as
// provider failures.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = d
	}
}

func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDecisionLogging logs each resolution, including role claims, at
// debug level.
func WithDecisionLogging(on bool) ResolverOption {
	return func(r *Resolver) {
		r.logDecisions = on
	}
}

func NewResolver(p IdentityProvider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		provider: p,
		timeout:  5 * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BearerToken returns the credential carried in the Authorization header.
// The "Bearer " prefix is removed when present; otherwise the whole value
// is the token. ok is false when the header is absent or empty.
func BearerToken(r *http.Request) (token string, ok bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	// Servers trim trailing whitespace, so "Bearer " arrives as "Bearer".
	if header == strings.TrimSpace(bearerPrefix) {
		return "", true
	}
	return strings.TrimPrefix(header, bearerPrefix), true
}

// Resolve makes a single attempt to identify the caller.
func (r *Resolver) Resolve(req *http.Request) Resolution {
	res := r.resolve(req)
	if r.logDecisions {
		attrs := []any{"outcome", res.Outcome.String()}
		if res.Principal != nil {
			attrs = append(attrs,
				"principal_id", res.Principal.ID,
				"role", res.Principal.Role,
				"app_metadata_role", res.Principal.AppMetadataRole,
			)
		}
		if res.Err != nil {
			attrs = append(attrs, "err", res.Err)
		}
		r.logger.DebugContext(req.Context(), "auth decision", attrs...)
	}
	return res
}

func (r *Resolver) resolve(req *http.Request) Resolution {
	token, ok := BearerToken(req)
	if !ok {
		return Resolution{Outcome: Anonymous}
	}
	if token == "" {
		return Resolution{Outcome: ResolutionFailed, Err: errEmptyToken}
	}

	ctx := req.Context()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	u, err := r.provider.GetUser(ctx, token)
	if err == nil && u == nil {
		err = ErrNoUser
	}
	if err != nil {
		return Resolution{Outcome: ResolutionFailed, Err: err}
	}

	p := PrincipalFromUser(u)
	if p.IsAdmin() {
		return Resolution{Outcome: AuthenticatedAdmin, Principal: p}
	}
	return Resolution{Outcome: AuthenticatedNonAdmin, Principal: p}
}

// ResolvePrincipal returns the caller's principal, or nil when there is no
// credential or it could not be exchanged. The two cases are not
// distinguished here; use Resolve for that.
func (r *Resolver) ResolvePrincipal(req *http.Request) *Principal {
	return r.Resolve(req).Principal
}
