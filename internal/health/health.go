// internal/health/health.go
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/WAJoseph/christian-martyrs-honor/internal/httpserver"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db      Pinger
	started time.Time
	timeout time.Duration
	now     func() time.Time
}

func New(db Pinger, started time.Time) *Handler {
	return &Handler{db: db, started: started, timeout: 3 * time.Second, now: time.Now}
}

type healthy struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    float64           `json:"uptime"`
}

type unhealthy struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
}

// ServeHTTP answers GET /api/health.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	now := h.now()
	ts := now.UTC().Format(time.RFC3339Nano)

	if err := h.db.PingContext(ctx); err != nil {
		slog.ErrorContext(r.Context(), "health check failed", "err", err)
		httpserver.JSON(w, http.StatusServiceUnavailable, unhealthy{
			Status:    "unhealthy",
			Timestamp: ts,
			Error:     err.Error(),
		})
		return
	}

	httpserver.JSON(w, http.StatusOK, healthy{
		Status:    "healthy",
		Timestamp: ts,
		Services:  map[string]string{"database": "connected"},
		Uptime:    now.Sub(h.started).Seconds(),
	})
}
