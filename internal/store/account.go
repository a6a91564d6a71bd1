package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

// GetAccount retrieves an account by ID. Account IDs are deterministic
// functions of the email, so no secondary email index is needed.
func (s *Store) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	if err := s.get([]byte(accountPrefix+id), &account); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

// SaveAccount overwrites the persisted account record.
func (s *Store) SaveAccount(_ context.Context, account *domain.Account) error {
	if err := s.set([]byte(accountPrefix+account.ID), account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account record.
func (s *Store) DeleteAccount(_ context.Context, id string) error {
	if err := s.delete([]byte(accountPrefix + id)); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
