package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
)

// isModalRequest reports whether a request originated from the modal dialog.
// htmx sends the id of the swap target in the HX-Target header, and every
// element the modal owns carries a "modal-" prefixed id, so the prefix picks
// the fragment variant without a separate parameter.
func isModalRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("HX-Target"), "modal-")
}

// renderFragment executes a template into a buffer first, so a render failure
// turns into a clean 500 instead of a half-written response.
func (h *Handler) renderFragment(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, name, data); err != nil {
		slog.Error("render failed", slog.String("template", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
