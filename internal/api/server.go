// Package api provides the HTTP API server and handlers for the ScentSearch application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/scentsearchapp/scentsearch-server/internal/catalog"
	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
	"github.com/scentsearchapp/scentsearch-server/internal/ratelimit"
	"github.com/scentsearchapp/scentsearch-server/internal/search"
	"github.com/scentsearchapp/scentsearch-server/internal/service"
	"github.com/scentsearchapp/scentsearch-server/internal/watcher"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog     *catalog.Index
	searchIndex *search.Index
	watcher     *watcher.CatalogWatcher
	auth        *service.AuthService
	collections *service.CollectionService
	reviews     *service.ReviewService
	authLimiter *ratelimit.KeyedRateLimiter
	router      *chi.Mux
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// The watcher may be nil when catalog file watching is disabled.
func NewServer(
	catalogIndex *catalog.Index,
	searchIndex *search.Index,
	catalogWatcher *watcher.CatalogWatcher,
	auth *service.AuthService,
	collections *service.CollectionService,
	reviews *service.ReviewService,
	authLimiter *ratelimit.KeyedRateLimiter,
	log *slog.Logger,
) *Server {
	s := &Server{
		catalog:     catalogIndex,
		searchIndex: searchIndex,
		watcher:     catalogWatcher,
		auth:        auth,
		collections: collections,
		reviews:     reviews,
		authLimiter: authLimiter,
		router:      chi.NewRouter(),
		logger:      log,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited per client IP).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimitByIP(s.authLimiter))
			r.Post("/signup", s.handleSignUp)
			r.Post("/login", s.handleLogin)
			r.Post("/guest", s.handleGuest)
			r.Post("/logout", s.handleLogout)
		})

		// Catalog browsing (public, read only).
		r.Route("/fragrances", func(r chi.Router) {
			r.Get("/{id}", s.handleGetFragrance)
			r.Get("/{id}/reviews", s.handleListFragranceReviews)
			r.With(s.requireAuth).Put("/{id}/reviews", s.handleUpsertReview)
		})
		r.Get("/brands", s.handleListBrands)
		r.Get("/brands/{brand}/fragrances", s.handleListBrandFragrances)

		// Search (public).
		r.Route("/search", func(r chi.Router) {
			r.Get("/", s.handleSearch)
			r.Get("/notes", s.handleSearchByNotes)
			r.Get("/fulltext", s.handleFullTextSearch)
		})

		// Discovery (auth so the queue can exclude seen fragrances).
		r.Route("/discovery", func(r chi.Router) {
			r.Get("/random", s.handleDiscoveryRandom)
			r.With(s.requireAuth).Get("/queue", s.handleDiscoveryQueue)
			r.With(s.requireAuth).Post("/pass", s.handleDiscoveryPass)
			r.With(s.requireAuth).Delete("/passed", s.handleClearPassedOn)
		})

		// Current user (requires auth).
		r.Route("/users/me", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetCurrentUser)
			r.Patch("/", s.handleUpdateCurrentUser)
			r.Delete("/", s.handleDeleteCurrentUser)
			r.Get("/reviews", s.handleListOwnReviews)
		})

		// Collection state (requires auth).
		r.Route("/collection", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetCollection)
			r.Post("/", s.handleAddToCollection)
			r.Delete("/", s.handleClearCollection)
			r.Delete("/{fragranceID}", s.handleRemoveFromCollection)
			r.Post("/top-five", s.handleAddToTopFive)
			r.Put("/top-five", s.handleReorderTopFive)
			r.Delete("/top-five/{fragranceID}", s.handleRemoveFromTopFive)
			r.Put("/signature", s.handleSetSignature)
		})

		// Wishlist (requires auth).
		r.Route("/wishlist", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetWishlist)
			r.Post("/", s.handleAddToWishlist)
			r.Delete("/", s.handleClearWishlist)
			r.Delete("/{fragranceID}", s.handleRemoveFromWishlist)
		})

		// Reviews (requires auth for mutation).
		r.With(s.requireAuth).Delete("/reviews/{id}", s.handleDeleteReview)
	})
}

// handleHealthCheck reports server health plus catalog state so clients can
// surface a stale or missing catalog.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	health := map[string]any{
		"status":         "healthy",
		"catalog_loaded": s.catalog.Loaded(),
		"catalog_size":   s.catalog.Len(),
	}
	if err := s.catalog.LastError(); err != nil {
		health["catalog_error"] = err.Error()
	}
	if s.watcher != nil {
		health["catalog_stale"] = s.watcher.Stale()
	}
	response.Success(w, health, s.logger)
}
