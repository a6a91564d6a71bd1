package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/scentsearchapp/scentsearch-server/internal/domain"
	domainerrors "github.com/scentsearchapp/scentsearch-server/internal/errors"
	"github.com/scentsearchapp/scentsearch-server/internal/store"
)

// ReviewService keeps all reviews in memory, indexed by fragrance, and
// persists the full list on every write. Each (fragrance, user) pair holds
// at most one review; writing again replaces it in place.
type ReviewService struct {
	store  *store.Store
	logger *slog.Logger

	mu          sync.RWMutex
	reviews     []*domain.Review
	byFragrance map[string][]*domain.Review
	indexByID   map[string]*domain.Review
}

// NewReviewService loads the persisted review list and builds the
// per-fragrance index.
func NewReviewService(ctx context.Context, store *store.Store, logger *slog.Logger) (*ReviewService, error) {
	s := &ReviewService{
		store:  store,
		logger: logger,
	}

	reviews, err := store.LoadReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	s.reviews = reviews
	s.reindex()
	logger.Info("reviews loaded", "count", len(reviews))
	return s, nil
}

// Upsert creates a review, or replaces the caller's existing review of the
// same fragrance in place. The review ID and creation time are stable
// across replacements.
func (s *ReviewService) Upsert(ctx context.Context, fragranceID, userID, userDisplayName string, content domain.ReviewContent) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findLocked(fragranceID, userID)
	if existing != nil {
		prev := *existing
		existing.Apply(content)
		existing.UserDisplayName = userDisplayName
		if err := s.persistLocked(ctx); err != nil {
			// Restore the prior state so memory stays consistent with disk.
			*existing = prev
			return nil, err
		}
		s.logger.Debug("review updated", "review_id", existing.ID, "fragrance_id", fragranceID)
		return existing, nil
	}

	review := domain.NewReview(uuid.NewString(), fragranceID, userID, userDisplayName, content)
	s.reviews = append(s.reviews, review)
	s.byFragrance[fragranceID] = append(s.byFragrance[fragranceID], review)
	s.indexByID[review.ID] = review

	if err := s.persistLocked(ctx); err != nil {
		// Roll the failed insert back so memory stays consistent with disk.
		s.reviews = s.reviews[:len(s.reviews)-1]
		s.reindex()
		return nil, err
	}

	s.logger.Debug("review created", "review_id", review.ID, "fragrance_id", fragranceID)
	return review, nil
}

// Delete removes a review by ID. Only the review's author may delete it.
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	review, ok := s.indexByID[reviewID]
	if !ok {
		return domainerrors.NotFound("review not found")
	}
	if review.UserID != userID {
		return domainerrors.Forbidden("cannot delete another user's review")
	}

	prev := s.reviews
	kept := make([]*domain.Review, 0, len(s.reviews)-1)
	for _, r := range s.reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	s.reviews = kept
	s.reindex()

	if err := s.persistLocked(ctx); err != nil {
		// Restore the prior state so memory stays consistent with disk.
		s.reviews = prev
		s.reindex()
		return err
	}

	s.logger.Debug("review deleted", "review_id", reviewID)
	return nil
}

// ReviewsFor returns all reviews of a fragrance in insertion order.
func (s *ReviewService) ReviewsFor(fragranceID string) []*domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Review, len(s.byFragrance[fragranceID]))
	copy(out, s.byFragrance[fragranceID])
	return out
}

// ReviewCountFor returns the number of reviews for a fragrance.
func (s *ReviewService) ReviewCountFor(fragranceID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byFragrance[fragranceID])
}

// ReviewBy returns the given user's review of a fragrance, or nil.
func (s *ReviewService) ReviewBy(fragranceID, userID string) *domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(fragranceID, userID)
}

// ReviewsByUser returns all reviews written by a user, in insertion order.
func (s *ReviewService) ReviewsByUser(userID string) []*domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Review
	for _, r := range s.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// AverageRating returns the mean star rating of a fragrance, or nil when it
// has no reviews.
func (s *ReviewService) AverageRating(fragranceID string) *float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := s.byFragrance[fragranceID]
	if len(reviews) == 0 {
		return nil
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return &avg
}

func (s *ReviewService) findLocked(fragranceID, userID string) *domain.Review {
	for _, r := range s.byFragrance[fragranceID] {
		if r.UserID == userID {
			return r
		}
	}
	return nil
}

func (s *ReviewService) persistLocked(ctx context.Context) error {
	if err := s.store.SaveReviews(ctx, s.reviews); err != nil {
		return fmt.Errorf("persist reviews: %w", err)
	}
	return nil
}

func (s *ReviewService) reindex() {
	s.byFragrance = make(map[string][]*domain.Review, len(s.reviews))
	s.indexByID = make(map[string]*domain.Review, len(s.reviews))
	for _, r := range s.reviews {
		s.byFragrance[r.FragranceID] = append(s.byFragrance[r.FragranceID], r)
		s.indexByID[r.ID] = r
	}
}
