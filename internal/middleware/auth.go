// internal/middleware/auth.go
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/WAJoseph/christian-martyrs-honor/internal/auth"
	"github.com/WAJoseph/christian-martyrs-honor/internal/httpserver"
)

// Resolver is the part of auth.Resolver the guard depends on.
type Resolver interface {
	Resolve(r *http.Request) auth.Resolution
}

// Guard admits only administrators to mutating routes.
type Guard struct {
	resolver Resolver
	logger   *slog.Logger
}

func NewGuard(resolver Resolver, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{resolver: resolver, logger: logger}
}

// unauthorized is the one response every rejected caller gets.
var unauthorized = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	httpserver.Error(w, http.StatusUnauthorized, "Unauthorized")
})

// RequireAdmin returns nil when the caller is an administrator. Otherwise
// it returns the handler that writes the 401 response; callers serve it and
// stop.
//
//	if deny := guard.RequireAdmin(r); deny != nil {
//		deny.ServeHTTP(w, r)
//		return
//	}
func (g *Guard) RequireAdmin(r *http.Request) http.Handler {
	res := g.resolver.Resolve(r)
	if res.Outcome == auth.AuthenticatedAdmin {
		return nil
	}
	if res.Outcome == auth.ResolutionFailed {
		g.logger.DebugContext(r.Context(), "admin check: identity resolution failed",
			"path", r.URL.Path, "err", res.Err)
	}
	return unauthorized
}

// IsAdmin reports whether the caller is an administrator without writing
// anything. Used by read routes that show more to admins.
func (g *Guard) IsAdmin(r *http.Request) bool {
	return g.resolver.Resolve(r).Outcome == auth.AuthenticatedAdmin
}

// Middleware applies RequireAdmin to every route it wraps and stores the
// admin principal in the request context.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := g.resolver.Resolve(r)
			if res.Outcome != auth.AuthenticatedAdmin {
				unauthorized.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), res.Principal)))
		})
	}
}
