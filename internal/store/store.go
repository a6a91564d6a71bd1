// Package store persists user-owned state (profiles, accounts, sessions,
// reviews) in a local Badger key-value database. Every record is a single
// JSON blob under a prefixed key, overwritten wholesale on mutation; there
// is no partial-update format or transaction log.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// schemaVersion is written under schemaKey on first open. A mismatch on a
// later open means the on-disk layout predates (or postdates) this binary.
const (
	schemaVersion = "1"
	schemaKey     = "schema:version"
)

// Key prefixes for stored records.
const (
	profilePrefix = "profile:"
	accountPrefix = "account:"
	sessionPrefix = "session:"
	reviewsKey    = "reviews" // single blob holding the whole review list
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	store := &Store{db: db, logger: logger}

	if err := store.checkSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("database opened", "path", path)
	}
	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database")
	}
	return s.db.Close()
}

// checkSchema stamps a fresh database with the current schema version and
// rejects databases written by an incompatible layout.
func (s *Store) checkSchema() error {
	var current string
	err := s.get([]byte(schemaKey), &current)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return s.set([]byte(schemaKey), schemaVersion)
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case current != schemaVersion:
		return fmt.Errorf("unsupported schema version %q (want %q)", current, schemaVersion)
	}
	return nil
}

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key, replacing any existing value.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
