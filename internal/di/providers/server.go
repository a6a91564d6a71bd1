package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/scentsearchapp/scentsearch-server/internal/api"
	"github.com/scentsearchapp/scentsearch-server/internal/catalog"
	"github.com/scentsearchapp/scentsearch-server/internal/config"
	"github.com/scentsearchapp/scentsearch-server/internal/logger"
	"github.com/scentsearchapp/scentsearch-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogIndex := do.MustInvoke[*catalog.Index](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	watcherHandle := do.MustInvoke[*CatalogWatcherHandle](i)
	authService := do.MustInvoke[*service.AuthService](i)
	collectionService := do.MustInvoke[*service.CollectionService](i)
	reviewService := do.MustInvoke[*service.ReviewService](i)
	limiterHandle := do.MustInvoke[*AuthRateLimiterHandle](i)

	handler := api.NewServer(
		catalogIndex,
		searchHandle.Index,
		watcherHandle.CatalogWatcher,
		authService,
		collectionService,
		reviewService,
		limiterHandle.KeyedRateLimiter,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
