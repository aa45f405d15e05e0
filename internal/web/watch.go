package web

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the template directory and re-parses
// the template set whenever an .html file changes, until ctx is cancelled.
// Reloads are debounced so editor save bursts trigger a single parse.
func Watch(ctx context.Context, r *Renderer, dir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, d := range []string{dir, filepath.Join(dir, "components")} {
		if err := w.Add(d); err != nil {
			return err
		}
	}

	logger.Info("template watcher: started", slog.String("dir", dir))

	// reloadTimer debounces bursts of write events into one reload.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("template watcher: stopped")
			return nil

		case <-reloadCh:
			if err := r.ReloadFromDir(dir); err != nil {
				logger.Warn("template watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("template watcher: templates reloaded")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".html") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("template watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
