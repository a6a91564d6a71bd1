package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

// LoadReviews reads the full review list. A missing key means no reviews
// have been written yet and returns an empty list, not an error.
func (s *Store) LoadReviews(_ context.Context) ([]*domain.Review, error) {
	var reviews []*domain.Review
	if err := s.get([]byte(reviewsKey), &reviews); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return []*domain.Review{}, nil
		}
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return reviews, nil
}

// SaveReviews overwrites the whole persisted review list.
func (s *Store) SaveReviews(_ context.Context, reviews []*domain.Review) error {
	if err := s.set([]byte(reviewsKey), reviews); err != nil {
		return fmt.Errorf("save reviews: %w", err)
	}
	return nil
}
