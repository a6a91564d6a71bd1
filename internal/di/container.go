// Package di provides dependency injection configuration for the ScentSearch server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/scentsearchapp/scentsearch-server/internal/catalog"
	"github.com/scentsearchapp/scentsearch-server/internal/config"
	"github.com/scentsearchapp/scentsearch-server/internal/di/providers"
	"github.com/scentsearchapp/scentsearch-server/internal/logger"
	"github.com/scentsearchapp/scentsearch-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogIndex)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideCatalogWatcher)

	// Business services
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideAuthRateLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap invokes all services to trigger initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*catalog.Index](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.CatalogWatcherHandle](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*providers.AuthRateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
