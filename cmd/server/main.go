// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/WAJoseph/christian-martyrs-honor/internal/auth"
	"github.com/WAJoseph/christian-martyrs-honor/internal/config"
	"github.com/WAJoseph/christian-martyrs-honor/internal/db"
	"github.com/WAJoseph/christian-martyrs-honor/internal/handlers"
	"github.com/WAJoseph/christian-martyrs-honor/internal/health"
	"github.com/WAJoseph/christian-martyrs-honor/internal/logging"
	"github.com/WAJoseph/christian-martyrs-honor/internal/maintenance"
	"github.com/WAJoseph/christian-martyrs-honor/internal/middleware"
	"github.com/WAJoseph/christian-martyrs-honor/internal/moderation"
	"github.com/WAJoseph/christian-martyrs-honor/internal/repo"
	"github.com/WAJoseph/christian-martyrs-honor/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// --- Load config (config.yaml + env overrides) ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	started := time.Now()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// --- Connect to Postgres ---
	sqlDB, err := db.Open(ctx, cfg.Database.URL, db.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	r := repo.New(sqlDB)

	// --- Identity + admission ---
	provider, err := newIdentityProvider(ctx, cfg)
	if err != nil {
		return err
	}
	resolver := auth.NewResolver(provider,
		auth.WithTimeout(cfg.Auth.Timeout),
		auth.WithLogger(logger),
		auth.WithDecisionLogging(cfg.Auth.LogDecisions),
	)
	guard := middleware.NewGuard(resolver, logger)

	// --- Maintenance ---
	store, closeStore, err := newMaintenanceStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	gate := maintenance.NewGate(store, logger)

	deps := routerDeps{
		Deps: handlers.Deps{
			Repo:   r,
			Guard:  guard,
			Health: health.New(r, started),
		},
		Gate:        gate,
		Admin:       guard,
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Server.RateLimitRPS,
			Burst:             cfg.Server.RateLimitBurst,
		},
		ServiceName: cfg.Telemetry.ServiceName,
	}
	if cfg.Moderation.Enabled {
		client := telemetry.InstrumentClient(&http.Client{Timeout: cfg.Moderation.Timeout})
		deps.Moderator = moderation.NewClassifier(cfg.Moderation.URL, client)
	}

	public := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newPublicRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ops := &http.Server{
		Addr:              cfg.Server.OpsAddr,
		Handler:           newOpsRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, srv := range map[string]*http.Server{"api": public, "ops": ops} {
		g.Go(func() error {
			logger.Info("listening", "listener", name, "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s listener: %w", name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(public.Shutdown(sctx), ops.Shutdown(sctx))
	})
	return g.Wait()
}

func newIdentityProvider(ctx context.Context, cfg config.Config) (auth.IdentityProvider, error) {
	switch cfg.Auth.Provider {
	case "oidc":
		if cfg.Auth.JWKSURL != "" {
			return auth.NewOIDCProviderFromJWKS(ctx, cfg.Auth.JWKSURL, cfg.Auth.IssuerURL, cfg.Auth.Audience), nil
		}
		return auth.NewOIDCProvider(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience)
	case "jwt":
		return auth.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	default:
		client := telemetry.InstrumentClient(&http.Client{Timeout: cfg.Auth.Timeout})
		return auth.NewSupabaseProvider(cfg.Auth.URL, cfg.Auth.ServiceKey, client), nil
	}
}

func newMaintenanceStore(cfg config.Config) (maintenance.Store, func(), error) {
	if cfg.Maintenance.Store != "redis" {
		return maintenance.NewMemoryStore(), func() {}, nil
	}
	client, err := maintenance.NewRedisClient(cfg.Maintenance.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return maintenance.NewRedisStore(client, cfg.Maintenance.RedisKey), func() { _ = client.Close() }, nil
}
