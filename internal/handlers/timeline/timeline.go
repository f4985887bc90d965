// internal/handlers/timeline/timeline.go
package timeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/WAJoseph/christian-martyrs-honor/internal/httpserver"
	"github.com/WAJoseph/christian-martyrs-honor/internal/models"
	"github.com/WAJoseph/christian-martyrs-honor/internal/repo"
)

const (
	maxCentury     = 32
	maxEntryName   = 128
	maxEntryYear   = 16
	maxDescription = 2000
)

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

// OptionalID accepts a number, a numeric string, "" or null. The last two
// leave it unset.
type OptionalID struct {
	Set   bool
	Value int64
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	*o = OptionalID{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
	} else {
		s = string(b)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.New("invalid id")
	}
	*o = OptionalID{Set: true, Value: v}
	return nil
}

func (o OptionalID) Ptr() *int64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type EntryRequest struct {
	Name        string     `json:"name"`
	Year        string     `json:"year"`
	Description string     `json:"description"`
	CenturyID   OptionalID `json:"centuryId"`
	MartyrID    OptionalID `json:"martyrId"`
}

func (in EntryRequest) model() (models.TimelineEntry, bool) {
	e := models.TimelineEntry{
		Name:        httpserver.Clip(in.Name, maxEntryName),
		Year:        httpserver.Clip(in.Year, maxEntryYear),
		Description: httpserver.Clip(in.Description, maxDescription),
		CenturyID:   in.CenturyID.Value,
		MartyrID:    in.MartyrID.Ptr(),
	}
	if e.Name == "" || e.Year == "" || e.Description == "" || !in.CenturyID.Set {
		return e, false
	}
	return e, true
}

type CenturyRequest struct {
	Century string `json:"century"`
}

func writeRepoError(w http.ResponseWriter, r *http.Request, err error, what, action string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		httpserver.Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrInvalidInput):
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, models.ErrConflict):
		httpserver.Error(w, http.StatusConflict, what+" already exists")
	default:
		slog.ErrorContext(r.Context(), what+" "+action+" failed", "err", err)
		httpserver.Error(w, http.StatusInternalServerError, "Failed to "+action+" "+what)
	}
}

// Timeline serves the grouped public view.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	sections, err := h.repo.Timeline(r.Context())
	if err != nil {
		writeRepoError(w, r, err, "timeline", "fetch")
		return
	}
	httpserver.JSON(w, http.StatusOK, sections)
}

// ---------------- Entries ----------------

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	es, err := h.repo.ListEntries(r.Context())
	if err != nil {
		writeRepoError(w, r, err, "timeline entry", "fetch")
		return
	}
	httpserver.JSON(w, http.StatusOK, es)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	e, err := h.repo.GetEntry(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "timeline entry", "fetch")
		return
	}
	httpserver.JSON(w, http.StatusOK, e)
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	var in EntryRequest
	if err := httpserver.DecodeJSON(w, r, &in); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	e, ok := in.model()
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	created, err := h.repo.CreateEntry(r.Context(), e)
	if err != nil {
		writeRepoError(w, r, err, "timeline entry", "create")
		return
	}
	httpserver.JSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	var in EntryRequest
	if err := httpserver.DecodeJSON(w, r, &in); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	e, ok := in.model()
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	updated, err := h.repo.UpdateEntry(r.Context(), id, e)
	if err != nil {
		writeRepoError(w, r, err, "timeline entry", "update")
		return
	}
	httpserver.JSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	if err := h.repo.DeleteEntry(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "timeline entry", "delete")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---------------- Centuries ----------------

func (h *Handler) ListCenturies(w http.ResponseWriter, r *http.Request) {
	cs, err := h.repo.ListCenturies(r.Context())
	if err != nil {
		writeRepoError(w, r, err, "century", "fetch")
		return
	}
	httpserver.JSON(w, http.StatusOK, cs)
}

func (h *Handler) GetCentury(w http.ResponseWriter, r *http.Request) {
	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	c, err := h.repo.GetCentury(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "century", "fetch")
		return
	}
	httpserver.JSON(w, http.StatusOK, c)
}

func (h *Handler) decodeCentury(w http.ResponseWriter, r *http.Request) (string, bool) {
	var in CenturyRequest
	if err := httpserver.DecodeJSON(w, r, &in); err != nil {
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
		return "", false
	}
	century := httpserver.Clip(in.Century, maxCentury)
	if century == "" {
		httpserver.Error(w, http.StatusBadRequest, "Invalid input")
		return "", false
	}
	return century, true
}

func (h *Handler) CreateCentury(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	century, ok := h.decodeCentury(w, r)
	if !ok {
		return
	}
	c, err := h.repo.CreateCentury(r.Context(), century)
	if err != nil {
		writeRepoError(w, r, err, "century", "create")
		return
	}
	httpserver.JSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCentury(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	century, ok := h.decodeCentury(w, r)
	if !ok {
		return
	}
	c, err := h.repo.UpdateCentury(r.Context(), id, century)
	if err != nil {
		writeRepoError(w, r, err, "century", "update")
		return
	}
	httpserver.JSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCentury(w http.ResponseWriter, r *http.Request) {
	if deny := h.guard.RequireAdmin(r); deny != nil {
		deny.ServeHTTP(w, r)
		return
	}

	id, ok := httpserver.ParseID(r, "id")
	if !ok {
		httpserver.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	if err := h.repo.DeleteCentury(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "century", "delete")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
