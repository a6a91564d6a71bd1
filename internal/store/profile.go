package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

// GetProfile retrieves a user's profile by user ID.
func (s *Store) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := s.get([]byte(profilePrefix+userID), &profile); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile overwrites the whole persisted profile.
func (s *Store) SaveProfile(_ context.Context, profile *domain.Profile) error {
	if err := s.set([]byte(profilePrefix+profile.ID), profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// DeleteProfile removes a user's profile.
func (s *Store) DeleteProfile(_ context.Context, userID string) error {
	if err := s.delete([]byte(profilePrefix + userID)); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// HasProfile checks whether a profile exists for the user.
func (s *Store) HasProfile(_ context.Context, userID string) (bool, error) {
	return s.exists([]byte(profilePrefix + userID))
}
