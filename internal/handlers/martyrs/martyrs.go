// internal/handlers/martyrs/martyrs.go
package martyrs

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/WAJoseph/christian-martyrs-honor/internal/httpserver"
	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
	"github.com/WAJoseph/christian-martyrs-honor/internal/repo"
)

// Guard admits administrators; a non-nil handler is the rejection.
type Guard interface {
	RequireAdmin(r *http.Request) http.Handler
}

type Handler struct {
	repo  repo.Repo
	guard Guard
}

func New(repo repo.Repo, guard Guard) *Handler {
	return &Handler{repo: repo, guard: guard}
}

// MartyrRequest is the create/update body. Story, IconDescription and
// IntercessoryPrayer default to "".
type MartyrRequest struct {
	Name               string     `json:"name"`
	Title              string     `json:"title"`
	FeastDay           string     `json:"feastDay"`
	Year               string     `json:"year"`
	Era                models.Era `json:"era"`
	IconURL            string     `json:"iconUrl"`
	Description        string     `json:"description"`
	Prayer             string     `json:"prayer"`
	Story              string     `json:"story"`
	IconDescription    string     `json:"iconDescription"`
	IntercessoryPrayer string     `json:"intercessoryPrayer"`
}

func (in MartyrRequest) model() (models.Martyr, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Martyr{}, errors.New("name is required")
	}
	if !in.Era.Valid() {
		return models.Martyr{}, errors.New("invalid era")
	}
	return models.Martyr{
		Name:               strings.TrimSpace(in.Name),
		Title:              in.Title,
		FeastDay:           in.FeastDay,
		Year:               in.Year,
		Era:                in.Era,
		IconURL:            in.IconURL,
		Description:        in.Description,
		Prayer:             in.Prayer,
		Story:              in.Story,
		IconDescription:    in.IconDescription,
		IntercessoryPrayer: in.IntercessoryPrayer,
	}, nil
}

func writeRepoError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		httpserver.Error(w, http.StatusNotFound, "Martyr not found")
	case errors.Is(err, models.ErrInvalidInput):
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		slog.ErrorContext(r.Context(), "martyr "+action+" failed", "err", err)
		httpserver.Error(w, http.StatusInternalServerError, "Failed to "+action+" martyr")
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ms, err := h.repo.ListMartyrs(r.Context())
	if err != nil {
		writeRepoError(w, r, err, "fetch")
		return
	}
	httpserver.JSON(w, http.StatusOK, ms)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	m, err := h.repo.GetMartyr(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "fetch")
		return
	}
	httpserver.JSON(w, http.StatusOK, m)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	// 1. Decode and validate
	var in MartyrRequest
	if err := httpserver.DecodeJSON(w, r, &in); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	m, err := in.model()
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// 2. Persist
	created, err := h.repo.CreateMartyr(r.Context(), m)
	if err != nil {
		writeRepoError(w, r, err, "create")
		return
	}
	httpserver.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	var in MartyrRequest
	if err := httpserver.DecodeJSON(w, r, &in); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	m, err := in.model()
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.repo.UpdateMartyr(r.Context(), id, m)
	if err != nil {
		writeRepoError(w, r, err, "update")
		return
	}
	httpserver.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	if err := h.repo.DeleteMartyr(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "delete")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]string{"message": "Martyr deleted successfully"})
}
