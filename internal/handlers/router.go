// internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/WAJoseph/christian-martyrs-honor/internal/handlers/martyrs"
	"github.com/WAJoseph/christian-martyrs-honor/internal/handlers/testimonies"
	"github.com/WAJoseph/christian-martyrs-honor/internal/handlers/timeline"
	"github.com/WAJoseph/christian-martyrs-honor/internal/repo"
)

// Guard is what the resource handlers need from the admission guard.
type Guard interface {
	RequireAdmin(r *http.Request) http.Handler
	IsAdmin(r *http.Request) bool
}

type Deps struct {
	Repo  repo.Repo
	Guard Guard
	// Moderator is nil when content moderation is disabled.
	Moderator testimonies.Moderator
	Health    http.Handler
}

// RegisterRoutes mounts the public API under /api. Mutating handlers check
// the guard themselves, first thing.
func RegisterRoutes(mux chi.Router, d Deps) {
	m := martyrs.New(d.Repo, d.Guard)
	t := testimonies.New(d.Repo, d.Guard, d.Moderator)
	tl := timeline.New(d.Repo, d.Guard)

	mux.Route("/api", func(api chi.Router) {
		if d.Health != nil {
			api.Method(http.MethodGet, "/health", d.Health)
		}

		api.Route("/martyrs", func(sr chi.Router) {
			sr.Get("/", m.List)
			sr.Post("/", m.Create)
			sr.Get("/{id}", m.GetByID)
			sr.Put("/{id}", m.Update)
			sr.Delete("/{id}", m.Delete)
		})

		api.Route("/testimonies", func(sr chi.Router) {
			sr.Get("/", t.List)
			sr.Post("/", t.Create)
			sr.Get("/{id}", t.GetByID)
			sr.Put("/{id}", t.Update)
			sr.Delete("/{id}", t.Delete)
		})

		api.Route("/timeline", func(sr chi.Router) {
			sr.Get("/", tl.Timeline)

			sr.Get("/entry", tl.ListEntries)
			sr.Post("/entry", tl.CreateEntry)
			sr.Get("/entry/{id}", tl.GetEntry)
			sr.Put("/entry/{id}", tl.UpdateEntry)
			sr.Delete("/entry/{id}", tl.DeleteEntry)

			sr.Get("/century", tl.ListCenturies)
			sr.Post("/century", tl.CreateCentury)
			sr.Get("/century/{id}", tl.GetCentury)
			sr.Put("/century/{id}", tl.UpdateCentury)
			sr.Delete("/century/{id}", tl.DeleteCentury)
		})
	})
}
