package api

import (
	"net/http"

	"github.com/starford/ansuz/internal/promptservice"
)

// CreateNote handles POST /prompts/{id}/notes and responds with the prompt's
// refreshed notes section. Modal requests get the modal list variant.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid prompt id"))
		return
	}
	if err := parseForm(w, r); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}
	in := promptservice.NoteInput{Content: r.PostFormValue("content")}
	if _, err := h.svc.CreateNote(r.Context(), id, in); err != nil {
		respondError(w, "create note", err, "prompt not found")
		return
	}

	p, err := h.svc.GetPrompt(r.Context(), id)
	if err != nil {
		respondError(w, "get prompt", err, "prompt not found")
		return
	}
	if isModalRequest(r) {
		h.renderFragment(w, "notes_modal", p)
		return
	}
	h.renderFragment(w, "notes_section", p)
}

// UpdateNote handles PUT /notes/{id} and responds with the updated note card.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	if err := parseForm(w, r); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}
	in := promptservice.NoteInput{Content: r.PostFormValue("content")}
	n, err := h.svc.UpdateNote(r.Context(), id, in)
	if err != nil {
		respondError(w, "update note", err, "note not found")
		return
	}
	if isModalRequest(r) {
		h.renderFragment(w, "note_card_modal", n)
		return
	}
	h.renderFragment(w, "note_card", n)
}

// DeleteNote handles DELETE /notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		respondError(w, "delete note", err, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
