// internal/maintenance/gate.go
package maintenance

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/WAJoseph/christian-martyrs-honor/internal/httpserver"
)

// HealthPath is never gated, so probes can see the process during
// maintenance.
const HealthPath = "/api/health"

// Gate turns away traffic while a maintenance window is active.
type Gate struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

type GateOption func(*Gate)

// WithClock replaces time.Now; used by tests.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

func NewGate(store Store, logger *slog.Logger, opts ...GateOption) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{store: store, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enable starts maintenance for [start, end]. The bounds are taken as given;
// the window stays active until Disable.
func (g *Gate) Enable(ctx context.Context, start, end time.Time) error {
	if err := g.store.Save(ctx, activeWindow(start, end)); err != nil {
		return err
	}
	g.logger.InfoContext(ctx, "maintenance mode activated",
		"start", start.Format(time.RFC3339), "end", end.Format(time.RFC3339))
	return nil
}

// Disable ends maintenance. Calling it while inactive is a no-op.
func (g *Gate) Disable(ctx context.Context) error {
	if err := g.store.Save(ctx, Inactive); err != nil {
		return err
	}
	g.logger.InfoContext(ctx, "maintenance mode deactivated")
	return nil
}

func (g *Gate) Status(ctx context.Context) (Window, error) {
	return g.store.Load(ctx)
}

type windowBody struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type unavailableBody struct {
	Error             string     `json:"error"`
	MaintenanceWindow windowBody `json:"maintenanceWindow"`
}

// Check returns nil when the request may proceed, otherwise the 503
// response to serve.
func (g *Gate) Check(r *http.Request) http.Handler {
	if r.URL.Path == HealthPath {
		return nil
	}
	w, err := g.store.Load(r.Context())
	if err != nil {
		g.logger.ErrorContext(r.Context(), "maintenance state unavailable, admitting request",
			"path", r.URL.Path, "err", err)
		return nil
	}
	if !w.Active {
		return nil
	}
	return g.unavailable(w)
}

func (g *Gate) unavailable(w Window) http.Handler {
	var start, end time.Time
	if w.Start != nil {
		start = *w.Start
	}
	if w.End != nil {
		end = *w.End
	}
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Retry-After", strconv.FormatInt(retryAfter(end, g.now()), 10))
		httpserver.JSON(rw, http.StatusServiceUnavailable, unavailableBody{
			Error: "System is under maintenance",
			MaintenanceWindow: windowBody{
				Start: start.UTC().Format(time.RFC3339Nano),
				End:   end.UTC().Format(time.RFC3339Nano),
			},
		})
	})
}

// retryAfter is the whole seconds until end, rounded up. It goes negative
// once end has passed.
func retryAfter(end, now time.Time) int64 {
	ms := end.UnixMilli() - now.UnixMilli()
	return int64(math.Ceil(float64(ms) / 1000))
}

func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if deny := g.Check(r); deny != nil {
				deny.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
