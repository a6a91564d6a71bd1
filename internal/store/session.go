package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

// SaveSession stores a session record under its opaque token.
func (s *Store) SaveSession(_ context.Context, session *domain.Session) error {
	if err := s.set([]byte(sessionPrefix+session.Token), session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token.
func (s *Store) GetSession(_ context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	if err := s.get([]byte(sessionPrefix+token), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session by token.
func (s *Store) DeleteSession(_ context.Context, token string) error {
	if err := s.delete([]byte(sessionPrefix + token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteSessionsForUser removes every session belonging to a user.
// Used on logout-everywhere and account cleanup.
func (s *Store) DeleteSessionsForUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	prefix := []byte(sessionPrefix)
	var tokens []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var session domain.Session
				if err := json.Unmarshal(val, &session); err != nil {
					return err
				}
				if session.UserID == userID {
					tokens = append(tokens, session.Token)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	for _, token := range tokens {
		if err := s.DeleteSession(ctx, token); err != nil {
			return 0, err
		}
	}
	return len(tokens), nil
}
