package api

import (
	"fmt"
	"io"
	"net/http"
)

// ImportPrompts handles POST /prompts/import (multipart/form-data, field
// "file"). The uploaded document is the export shape; on success the refreshed
// prompt list is returned so the page updates in place.
func (h *Handler) ImportPrompts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}
	if _, err := h.svc.Import(r.Context(), data); err != nil {
		respondError(w, "import prompt", err, "prompt not found")
		return
	}
	h.renderPromptList(w, r, "")
}

// ExportPrompt handles GET /prompts/{id}/export, serving the prompt and its
// notes as a JSON download.
func (h *Handler) ExportPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid prompt id"))
		return
	}
	doc, err := h.svc.Export(r.Context(), id)
	if err != nil {
		respondError(w, "export prompt", err, "prompt not found")
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=prompt-%d.json", id))
	writeJSON(w, http.StatusOK, doc)
}
