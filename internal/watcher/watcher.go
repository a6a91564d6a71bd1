// Package watcher observes the catalog file for on-disk changes.
//
// The in-process catalog is immutable once loaded, so a changed file is not
// hot-reloaded; the watcher flags the index as stale so the condition shows
// up on the health endpoint and in the logs, and a restart picks it up.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// CatalogWatcher watches a single catalog file.
type CatalogWatcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	stale   atomic.Bool
}

// New creates a watcher for the catalog file at path.
// The parent directory is watched so atomic replace-by-rename is caught.
func New(path string, logger *slog.Logger) (*CatalogWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch catalog directory: %w", err)
	}

	return &CatalogWatcher{
		path:    path,
		logger:  logger,
		watcher: fsWatcher,
	}, nil
}

// Start consumes filesystem events until the context is canceled or the
// watcher is closed. Run in a goroutine.
func (w *CatalogWatcher) Start(ctx context.Context) {
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if w.stale.CompareAndSwap(false, true) && w.logger != nil {
				w.logger.Warn("catalog file changed on disk, restart required to pick it up",
					"path", w.path,
					"op", event.Op.String(),
				)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("catalog watcher error", "error", err)
			}
		}
	}
}

// Stale reports whether the catalog file changed since the index was loaded.
func (w *CatalogWatcher) Stale() bool {
	return w.stale.Load()
}

// Close stops watching.
func (w *CatalogWatcher) Close() error {
	return w.watcher.Close()
}
