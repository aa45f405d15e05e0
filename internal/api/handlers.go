// Package api implements the HTTP surface of Ansuz using chi: the full page,
// the htmx fragments, and the JSON import/export and health endpoints.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/promptservice"
	"github.com/starford/ansuz/internal/web"
)

// maxFormBytes bounds urlencoded form bodies. Prompt and note content is
// user-typed text, so 1 MB is generous.
const maxFormBytes = 1 << 20

// Handler holds the route handlers and their dependencies.
type Handler struct {
	svc            *promptservice.Service
	renderer       *web.Renderer
	maxUploadBytes int64
}

// NewHandler creates a new Handler.
func NewHandler(svc *promptservice.Service, renderer *web.Renderer, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, renderer: renderer, maxUploadBytes: maxUploadBytes}
}

// listData feeds the index page and the prompt list fragment.
type listData struct {
	Prompts []models.Prompt
}

// urlID parses the numeric {id} route parameter.
func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseForm bounds and parses an urlencoded form body.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	return r.ParseForm()
}

// respondError maps service errors onto client responses. Unexpected errors
// are logged and surfaced as a generic 500.
func respondError(w http.ResponseWriter, op string, err error, notFound string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(notFound))
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// renderPromptList loads prompts matching search and writes the list fragment.
func (h *Handler) renderPromptList(w http.ResponseWriter, r *http.Request, search string) {
	prompts, err := h.svc.ListPrompts(r.Context(), search)
	if err != nil {
		respondError(w, "list prompts", err, "prompt not found")
		return
	}
	h.renderFragment(w, "prompt_list", listData{Prompts: prompts})
}

// Index handles GET /, the full page with all prompts.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.svc.ListPrompts(r.Context(), "")
	if err != nil {
		respondError(w, "list prompts", err, "prompt not found")
		return
	}
	h.renderFragment(w, "index", listData{Prompts: prompts})
}

// SearchPrompts handles GET /search. An empty q returns the full list, so
// clearing the search box restores the page.
func (h *Handler) SearchPrompts(w http.ResponseWriter, r *http.Request) {
	h.renderPromptList(w, r, r.URL.Query().Get("q"))
}

// CreatePrompt handles POST /prompts and responds with the refreshed list.
func (h *Handler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}
	in := promptservice.PromptInput{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
	if _, err := h.svc.CreatePrompt(r.Context(), in); err != nil {
		respondError(w, "create prompt", err, "prompt not found")
		return
	}
	h.renderPromptList(w, r, "")
}

// EditForm handles GET /prompts/{id}/edit.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid prompt id"))
		return
	}
	p, err := h.svc.GetPrompt(r.Context(), id)
	if err != nil {
		respondError(w, "get prompt", err, "prompt not found")
		return
	}
	h.renderFragment(w, "prompt_edit", p)
}

// UpdatePrompt handles PUT /prompts/{id} and responds with the updated card.
func (h *Handler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid prompt id"))
		return
	}
	if err := parseForm(w, r); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}
	in := promptservice.PromptInput{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
	p, err := h.svc.UpdatePrompt(r.Context(), id, in)
	if err != nil {
		respondError(w, "update prompt", err, "prompt not found")
		return
	}
	h.renderFragment(w, "prompt_card", p)
}

// DeletePrompt handles DELETE /prompts/{id}.
func (h *Handler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid prompt id"))
		return
	}
	if err := h.svc.DeletePrompt(r.Context(), id); err != nil {
		respondError(w, "delete prompt", err, "prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PromptCard handles GET /prompts/{id}/card, used to restore a card after a
// cancelled edit.
func (h *Handler) PromptCard(w http.ResponseWriter, r *http.Request) {
	h.renderPromptView(w, r, "prompt_card")
}

// PromptModal handles GET /prompts/{id}/modal.
func (h *Handler) PromptModal(w http.ResponseWriter, r *http.Request) {
	h.renderPromptView(w, r, "prompt_modal")
}

// NotesList handles GET /prompts/{id}/notes-list, the lazy-loaded note list
// inside the modal.
func (h *Handler) NotesList(w http.ResponseWriter, r *http.Request) {
	h.renderPromptView(w, r, "notes_modal")
}

func (h *Handler) renderPromptView(w http.ResponseWriter, r *http.Request, name string) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid prompt id"))
		return
	}
	p, err := h.svc.GetPrompt(r.Context(), id)
	if err != nil {
		respondError(w, "get prompt", err, "prompt not found")
		return
	}
	h.renderFragment(w, name, p)
}

// Health handles GET /health, the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready and confirms the database answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	checks := map[string]string{"database": "ok"}
	if err := h.svc.Ping(ctx); err != nil {
		status = "unavailable"
		code = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	}
	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}
