package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/ansuz/internal/promptservice"
	"github.com/starford/ansuz/internal/web"
)

// NewRouter creates a chi router with all routes mounted: the page and
// fragment handlers, note and import/export endpoints, health probes, and the
// embedded static assets under /static/.
func NewRouter(svc *promptservice.Service, renderer *web.Renderer, maxUploadBytes int64) chi.Router {
	h := NewHandler(svc, renderer, maxUploadBytes)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index)
	r.Get("/search", h.SearchPrompts)

	r.Route("/prompts", func(r chi.Router) {
		r.Post("/", h.CreatePrompt)
		r.Post("/import", h.ImportPrompts)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.UpdatePrompt)
			r.Delete("/", h.DeletePrompt)
			r.Get("/card", h.PromptCard)
			r.Get("/edit", h.EditForm)
			r.Get("/modal", h.PromptModal)
			r.Get("/notes-list", h.NotesList)
			r.Get("/export", h.ExportPrompt)
			r.Post("/notes", h.CreateNote)
		})
	})

	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Health check endpoints.
	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)

	// Static assets.
	r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	return r
}
