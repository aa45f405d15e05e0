// Package web renders the HTML pages and fragments and serves the static
// assets. Templates are embedded and parsed once at startup; in live-reload
// mode they can be re-parsed from disk while the server runs.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/starford/ansuz/internal/markdown"
)

//go:embed templates static
var assets embed.FS

func funcMap() template.FuncMap {
	return template.FuncMap{
		"markdown": markdown.Render,
	}
}

// Renderer holds the parsed template set. Render and swap are guarded so a
// live reload can replace the set while requests are in flight.
type Renderer struct {
	mu  sync.RWMutex
	tpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tpl, err := template.New("ansuz").Funcs(funcMap()).ParseFS(assets,
		"templates/*.html", "templates/components/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render executes the named template into w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	r.mu.RLock()
	tpl := r.tpl
	r.mu.RUnlock()
	return tpl.ExecuteTemplate(w, name, data)
}

// ReloadFromDir re-parses the template set from a directory on disk and swaps
// it in. The directory layout must mirror the embedded one: page templates at
// the top level and fragments under components/.
func (r *Renderer) ReloadFromDir(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("web: reload: %w", err)
	}
	tpl, err := template.New("ansuz").Funcs(funcMap()).ParseFS(os.DirFS(dir),
		"*.html", "components/*.html")
	if err != nil {
		return fmt.Errorf("web: reload: %w", err)
	}
	r.mu.Lock()
	r.tpl = tpl
	r.mu.Unlock()
	return nil
}

// Static returns a handler serving the embedded static assets. Mount it under
// the /static/ prefix.
func Static() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic("web: static sub-filesystem: " + err.Error())
	}
	return http.FileServer(http.FS(sub))
}
