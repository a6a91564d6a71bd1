package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
	domainerrors "github.com/scentsearchapp/scentsearch-server/internal/errors"
	"github.com/scentsearchapp/scentsearch-server/internal/store"
)

// CollectionService owns the per-user profile aggregate: collection,
// wishlist, passed-on set, signature scent, and top five. Every mutation
// re-establishes the profile invariants and re-persists the whole record.
//
// Mutations return the updated profile plus a changed flag so callers can
// tell an applied mutation from a soft-guard no-op (e.g. adding to a full
// top five).
type CollectionService struct {
	store  *store.Store
	logger *slog.Logger

	// Serializes read-modify-write cycles: each mutation loads the whole
	// profile, mutates it, and overwrites the stored blob.
	mu sync.Mutex
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store *store.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:  store,
		logger: logger,
	}
}

// EnsureProfile returns the user's profile, creating an empty one if none
// has been persisted yet.
func (s *CollectionService) EnsureProfile(ctx context.Context, userID, email, displayName string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !domainerrors.Is(err, store.ErrProfileNotFound) {
		return nil, err
	}

	profile = domain.NewProfile(userID, email, displayName)
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile created", "user_id", userID)
	return profile, nil
}

// GetProfile retrieves a user's profile.
func (s *CollectionService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrProfileNotFound) {
			return nil, domainerrors.NotFound("profile not found")
		}
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a user's persisted profile.
func (s *CollectionService) DeleteProfile(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteProfile(ctx, userID)
}

// UpdateDisplayName sets the profile's display name.
func (s *CollectionService) UpdateDisplayName(ctx context.Context, userID, displayName string) (*domain.Profile, error) {
	profile, _, err := s.mutate(ctx, userID, "update_display_name", func(p *domain.Profile) bool {
		return p.SetDisplayName(displayName)
	})
	return profile, err
}

// AddToCollection adds a fragrance to the collection, removing it from the
// wishlist if present.
func (s *CollectionService) AddToCollection(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "add_to_collection", func(p *domain.Profile) bool {
		return p.AddToCollection(fragranceID)
	})
}

// RemoveFromCollection removes a fragrance from the collection, cascading
// to the top five and signature scent.
func (s *CollectionService) RemoveFromCollection(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "remove_from_collection", func(p *domain.Profile) bool {
		return p.RemoveFromCollection(fragranceID)
	})
}

// AddToWishlist adds a fragrance to the wishlist unless it is already owned.
func (s *CollectionService) AddToWishlist(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "add_to_wishlist", func(p *domain.Profile) bool {
		return p.AddToWishlist(fragranceID)
	})
}

// RemoveFromWishlist removes a fragrance from the wishlist.
func (s *CollectionService) RemoveFromWishlist(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "remove_from_wishlist", func(p *domain.Profile) bool {
		return p.RemoveFromWishlist(fragranceID)
	})
}

// PassOn records a skipped fragrance. Idempotent.
func (s *CollectionService) PassOn(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "pass_on", func(p *domain.Profile) bool {
		return p.PassOn(fragranceID)
	})
}

// SetSignature designates an owned fragrance as the signature scent, or
// clears it when fragranceID is empty.
func (s *CollectionService) SetSignature(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "set_signature", func(p *domain.Profile) bool {
		if fragranceID == "" {
			return p.ClearSignature()
		}
		return p.SetSignature(fragranceID)
	})
}

// AddToTopFive appends an owned fragrance to the top five.
func (s *CollectionService) AddToTopFive(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "add_to_top_five", func(p *domain.Profile) bool {
		return p.AddToTopFive(fragranceID)
	})
}

// RemoveFromTopFive removes a fragrance from the top five.
func (s *CollectionService) RemoveFromTopFive(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "remove_from_top_five", func(p *domain.Profile) bool {
		return p.RemoveFromTopFive(fragranceID)
	})
}

// ReorderTopFive replaces the top five with the given ordering.
func (s *CollectionService) ReorderTopFive(ctx context.Context, userID string, fragranceIDs []string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "reorder_top_five", func(p *domain.Profile) bool {
		return p.ReorderTopFive(fragranceIDs)
	})
}

// ClearCollection empties the collection with cascade to top five and signature.
func (s *CollectionService) ClearCollection(ctx context.Context, userID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "clear_collection", func(p *domain.Profile) bool {
		return p.ClearCollection()
	})
}

// ClearWishlist empties the wishlist.
func (s *CollectionService) ClearWishlist(ctx context.Context, userID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "clear_wishlist", func(p *domain.Profile) bool {
		return p.ClearWishlist()
	})
}

// ClearPassedOn forgets all passed-on fragrances.
func (s *CollectionService) ClearPassedOn(ctx context.Context, userID string) (*domain.Profile, bool, error) {
	return s.mutate(ctx, userID, "clear_passed_on", func(p *domain.Profile) bool {
		return p.ClearPassedOn()
	})
}

// SeenIDs returns the union of collection, wishlist, and passed-on IDs,
// used to exclude already-triaged fragrances from discovery.
func (s *CollectionService) SeenIDs(ctx context.Context, userID string) (map[string]bool, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.SeenIDs(), nil
}

// mutate loads the profile, applies fn, and re-persists the whole record
// when fn reports a change. The mutex makes the load-mutate-save cycle
// atomic with respect to other mutations.
func (s *CollectionService) mutate(ctx context.Context, userID, op string, fn func(*domain.Profile) bool) (*domain.Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrProfileNotFound) {
			return nil, false, domainerrors.NotFound("profile not found")
		}
		return nil, false, err
	}

	changed := fn(profile)
	if !changed {
		s.logger.Debug("profile mutation was a no-op", "op", op, "user_id", userID)
		return profile, false, nil
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, false, fmt.Errorf("persist profile after %s: %w", op, err)
	}

	s.logger.Debug("profile updated", "op", op, "user_id", userID)
	return profile, true, nil
}
