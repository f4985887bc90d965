// cmd/server/routes.go
package main

import (
	"context"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	mux_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/WAJoseph/christian-martyrs-honor/internal/handlers"
	"github.com/WAJoseph/christian-martyrs-honor/internal/maintenance"
	"github.com/WAJoseph/christian-martyrs-honor/internal/middleware"
	"github.com/WAJoseph/christian-martyrs-honor/internal/telemetry"
)

type routerDeps struct {
	handlers.Deps
	Gate        *maintenance.Gate
	Admin       *middleware.Guard
	CORSOrigins []string
	RateLimit   middleware.RateLimitConfig
	ServiceName string
}

// newPublicRouter builds the API listener's handler. The maintenance gate
// sits in front of routing so it sees every path, including unknown ones.
func newPublicRouter(ctx context.Context, d routerDeps) http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(mux_middleware.Logger)
	mux.Use(mux_middleware.Recoverer)
	mux.Use(telemetry.HTTPMiddleware(d.ServiceName))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Health stays reachable for monitors behind every edge filter.
	rl := d.RateLimit
	rl.ExemptPaths = append(slices.Clone(rl.ExemptPaths), maintenance.HealthPath)
	mux.Use(middleware.RateLimiter(ctx, rl))
	mux.Use(d.Gate.Middleware())

	handlers.RegisterRoutes(mux, d.Deps)
	return mux
}

// newOpsRouter builds the operator listener: health plus the admin-only
// maintenance controls. It is never gated.
func newOpsRouter(d routerDeps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(mux_middleware.Recoverer)

	if d.Health != nil {
		mux.Method(http.MethodGet, maintenance.HealthPath, d.Health)
	}
	mux.Group(func(r chi.Router) {
		r.Use(d.Admin.Middleware())
		maintenance.NewHandler(d.Gate).Routes(r)
	})
	return mux
}
