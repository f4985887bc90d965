// internal/handlers/testimonies/testimonies.go
package testimonies

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/WAJoseph/christian-martyrs-honor/internal/httpserver"
	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
	"github.com/WAJoseph/christian-martyrs-honor/internal/moderation"
	"github.com/WAJoseph/christian-martyrs-honor/internal/repo"
)

const (
	maxName    = 64
	maxTitle   = 128
	maxContent = 2000
)

type Guard interface {
	RequireAdmin(r *http.Request) http.Handler
	IsAdmin(r *http.Request) bool
}

// Moderator screens public submissions. Nil disables screening.
type Moderator interface {
	Check(ctx context.Context, text string) moderation.Result
}

type Handler struct {
	repo      repo.Repo
	guard     Guard
	moderator Moderator
}

func New(repo repo.Repo, guard Guard, moderator Moderator) *Handler {
	return &Handler{repo: repo, guard: guard, moderator: moderator}
}

// TestimonyRequest is the submission and update body. Featured is honoured
// only when it is a JSON boolean.
type TestimonyRequest struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	Featured any    `json:"featured"`
}

func (in TestimonyRequest) normalize() (models.Testimony, error) {
	t := models.Testimony{
		Name:    httpserver.Clip(in.Name, maxName),
		Title:   httpserver.Clip(in.Title, maxTitle),
		Content: httpserver.Clip(in.Content, maxContent),
		Status:  models.TestimonyStatus(strings.TrimSpace(in.Status)),
	}
	if t.Name == "" || t.Title == "" || t.Content == "" {
		return t, errors.New("Missing required fields")
	}
	if t.Status == "" {
		t.Status = models.TestimonyPending
	}
	if featured, ok := in.Featured.(bool); ok {
		t.Featured = featured
	}
	if in.Date != "" {
		d, err := parseDate(in.Date)
		if err != nil {
			return t, errors.New("Invalid date")
		}
		t.Date = d
	}
	return t, nil
}

func validStatus(s models.TestimonyStatus) bool {
	switch s {
	case models.TestimonyPending, models.TestimonyApproved, models.TestimonyRejected:
		return true
	}
	return false
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func writeRepoError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		httpserver.Error(w, http.StatusNotFound, "Testimony not found")
	case errors.Is(err, models.ErrInvalidInput):
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		slog.ErrorContext(r.Context(), "testimony "+action+" failed", "err", err)
		httpserver.Error(w, http.StatusInternalServerError, "Failed to "+action+" testimony")
	}
}

// List returns approved testimonies, newest first. Administrators may pass
// ?status=all to include pending and rejected ones.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		ts  []models.Testimony
		err error
	)
	if r.URL.Query().Get("status") == "all" && h.guard.IsAdmin(r) {
		ts, err = h.repo.ListTestimonies(r.Context())
	} else {
		ts, err = h.repo.ListApprovedTestimonies(r.Context())
	}
	if err != nil {
		writeRepoError(w, r, err, "fetch")
		return
	}
	httpserver.JSON(w, http.StatusOK, ts)
}

// GetByID hides unapproved testimonies from everyone but administrators.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	t, err := h.repo.GetTestimony(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "fetch")
		return
	}
	if t.Status != models.TestimonyApproved && !h.guard.IsAdmin(r) {
		httpserver.Error(w, http.StatusNotFound, "Testimony not found")
		return
	}
	httpserver.JSON(w, http.StatusOK, t)
}

// Create accepts a public submission. It is always stored as pending and
// unfeatured.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in TestimonyRequest
	if err := httpserver.DecodeJSON(w, r, &in); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	in.Status, in.Featured = "", nil
	t, err := in.normalize()
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.moderator != nil {
		res := h.moderator.Check(r.Context(), t.Name+"\n"+t.Title+"\n"+t.Content)
		if !res.Allowed {
			msg := res.Message
			if msg == "" {
				msg = "Content was rejected by moderation"
			}
			httpserver.Error(w, http.StatusUnprocessableEntity, msg)
			return
		}
	}

	created, err := h.repo.CreateTestimony(r.Context(), t)
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
	var in TestimonyRequest
	if err := httpserver.DecodeJSON(w, r, &in); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	t, err := in.normalize()
	if err != nil {
		httpserver.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validStatus(t.Status) {
		httpserver.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	updated, err := h.repo.UpdateTestimony(r.Context(), id, t)
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
	if err := h.repo.DeleteTestimony(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "delete")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]string{"message": "Testimony deleted successfully"})
}
