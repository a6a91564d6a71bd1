package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/scentsearchapp/scentsearch-server/internal/catalog"
	"github.com/scentsearchapp/scentsearch-server/internal/config"
	"github.com/scentsearchapp/scentsearch-server/internal/logger"
	"github.com/scentsearchapp/scentsearch-server/internal/search"
	"github.com/scentsearchapp/scentsearch-server/internal/watcher"
)

// ProvideCatalogIndex provides the in-memory fragrance catalog and kicks
// off the initial load in the background. A failed load does not fail
// startup: the catalog stays unavailable and retries on the next access.
func ProvideCatalogIndex(i do.Injector) (*catalog.Index, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx := catalog.New(cfg.Catalog.Path, log.Logger)

	go func() {
		if err := idx.Load(context.Background()); err != nil {
			log.Error("Initial catalog load failed", "error", err, "path", cfg.Catalog.Path)
			return
		}
		log.Info("Catalog loaded", "records", idx.Len(), "path", cfg.Catalog.Path)
	}()

	return idx, nil
}

// SearchIndexHandle wraps the bleve index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory full text index, populated in
// the background once the catalog has loaded.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	idx := do.MustInvoke[*catalog.Index](i)

	searchIndex, err := search.NewMemoryIndex(log.Logger)
	if err != nil {
		return nil, err
	}

	go func() {
		ctx := context.Background()
		if err := idx.Load(ctx); err != nil {
			log.Warn("Skipping search indexing, catalog unavailable", "error", err)
			return
		}
		if err := searchIndex.IndexCatalog(ctx, idx.Records()); err != nil {
			log.Error("Failed to build search index", "error", err)
			return
		}
		count, _ := searchIndex.DocCount()
		log.Info("Search index built", "documents", count)
	}()

	return &SearchIndexHandle{Index: searchIndex}, nil
}

// CatalogWatcherHandle wraps the catalog file watcher with its context for
// lifecycle management. Watcher is nil when watching is disabled.
type CatalogWatcherHandle struct {
	*watcher.CatalogWatcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *CatalogWatcherHandle) Shutdown() error {
	if h.CatalogWatcher == nil {
		return nil
	}
	h.cancel()
	return h.Close()
}

// ProvideCatalogWatcher provides the catalog file watcher, which flags the
// in-memory catalog as stale when the file changes on disk.
func ProvideCatalogWatcher(i do.Injector) (*CatalogWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Catalog.WatchFile {
		return &CatalogWatcherHandle{}, nil
	}

	w, err := watcher.New(cfg.Catalog.Path, log.Logger)
	if err != nil {
		// Watching is best effort; the server works without it.
		log.Warn("Catalog watcher disabled", "error", err)
		return &CatalogWatcherHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	log.Info("Catalog watcher started", "path", cfg.Catalog.Path)

	return &CatalogWatcherHandle{CatalogWatcher: w, cancel: cancel}, nil
}
