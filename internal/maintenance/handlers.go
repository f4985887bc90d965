// internal/maintenance/handlers.go
package maintenance

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/WAJoseph/christian-martyrs-honor/internal/httpserver"
)

// Handler exposes the gate to operators. Mount it on a listener the gate
// does not wrap.
type Handler struct {
	gate *Gate
}

func NewHandler(g *Gate) *Handler {
	return &Handler{gate: g}
}

// EnableRequest is the POST /maintenance body. Start defaults to now.
type EnableRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/maintenance", h.Status)
	r.Post("/maintenance", h.Enable)
	r.Delete("/maintenance", h.Disable)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	win, err := h.gate.Status(r.Context())
	if err != nil {
		httpserver.Error(w, http.StatusBadGateway, err.Error())
		return
	}
	httpserver.JSON(w, http.StatusOK, win)
}

func (h *Handler) Enable(w http.ResponseWriter, r *http.Request) {
	var in EnableRequest
	if err := httpserver.DecodeJSON(w, r, &in); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if in.End == nil {
		httpserver.Error(w, http.StatusBadRequest, "end is required")
		return
	}
	start := h.gate.now()
	if in.Start != nil {
		start = *in.Start
	}
	if err := h.gate.Enable(r.Context(), start, *in.End); err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to enable maintenance")
		return
	}
	httpserver.JSON(w, http.StatusOK, activeWindow(start, *in.End))
}

func (h *Handler) Disable(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Disable(r.Context()); err != nil {
		httpserver.Error(w, http.StatusInternalServerError, "failed to disable maintenance")
		return
	}
	httpserver.JSON(w, http.StatusOK, Inactive)
}
