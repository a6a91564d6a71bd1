package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/scentsearchapp/scentsearch-server/internal/config"
	"github.com/scentsearchapp/scentsearch-server/internal/logger"
	"github.com/scentsearchapp/scentsearch-server/internal/ratelimit"
	"github.com/scentsearchapp/scentsearch-server/internal/service"
)

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, log.Logger), nil
}

// ProvideReviewService provides the review service with persisted reviews
// loaded into memory.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(context.Background(), storeHandle.Store, log.Logger)
}

// ProvideAuthService provides the local auth service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	collections := do.MustInvoke[*service.CollectionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, collections, cfg.Auth.SessionDuration, log.Logger), nil
}

// AuthRateLimiterHandle wraps the auth rate limiter so its cleanup
// goroutine stops on shutdown.
type AuthRateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *AuthRateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideAuthRateLimiter provides the per-IP rate limiter for auth endpoints.
func ProvideAuthRateLimiter(i do.Injector) (*AuthRateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst)
	return &AuthRateLimiterHandle{KeyedRateLimiter: limiter}, nil
}
