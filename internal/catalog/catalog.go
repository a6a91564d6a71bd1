// Package catalog loads the bundled fragrance catalog and answers lookups,
// substring search, note search, and randomized discovery sampling.
//
// The index is immutable once loaded. Loading is a one-shot idempotent
// operation: concurrent callers converge on a single in-flight load, and a
// load after success is a no-op.
package catalog

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
	"github.com/scentsearchapp/scentsearch-server/internal/errors"
)

// DefaultDiscoveryLimit is the discovery queue size when the caller does not specify one.
const DefaultDiscoveryLimit = 50

// ShuffleFunc randomizes n elements via swap. Injectable for deterministic tests.
type ShuffleFunc func(n int, swap func(i, j int))

// Option configures an Index.
type Option func(*Index)

// WithShuffle overrides the random source used by DiscoveryQueue and Random.
func WithShuffle(shuffle ShuffleFunc) Option {
	return func(idx *Index) {
		idx.shuffle = shuffle
	}
}

// Index is the in-memory fragrance catalog.
//
// Thread safety: all methods are safe for concurrent use. Queries against
// an unloaded or failed index return empty results, not errors; callers
// distinguish the two via Loaded and LastError.
type Index struct {
	path    string
	logger  *slog.Logger
	shuffle ShuffleFunc
	group   singleflight.Group

	mu      sync.RWMutex
	records []domain.Fragrance
	byID    map[string]domain.Fragrance
	byBrand map[string][]domain.Fragrance
	brands  []string
	loaded  bool
	lastErr error
}

// New creates an index for the catalog file at path. Call Load before querying.
func New(path string, logger *slog.Logger, opts ...Option) *Index {
	idx := &Index{
		path:    path,
		logger:  logger,
		shuffle: rand.Shuffle,
		byID:    map[string]domain.Fragrance{},
		byBrand: map[string][]domain.Fragrance{},
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Load reads and indexes the catalog file. Safe to call repeatedly:
// concurrent calls share one load, and a call after success returns nil
// immediately. On failure the index stays empty, the error is recorded,
// and a later call retries.
func (idx *Index) Load(ctx context.Context) error {
	idx.mu.RLock()
	done := idx.loaded
	idx.mu.RUnlock()
	if done {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	_, err, _ := idx.group.Do("load", func() (any, error) {
		return nil, idx.load()
	})
	return err
}

func (idx *Index) load() error {
	idx.mu.RLock()
	done := idx.loaded
	idx.mu.RUnlock()
	if done {
		return nil
	}

	data, err := os.ReadFile(idx.path)
	if err != nil {
		loadErr := errors.ErrCatalogUnavailable.WithCause(err)
		idx.recordFailure(loadErr)
		return loadErr
	}

	var records []domain.Fragrance
	if err := json.Unmarshal(data, &records); err != nil {
		loadErr := errors.ErrCatalogUnavailable.WithCause(err)
		idx.recordFailure(loadErr)
		return loadErr
	}

	byID := make(map[string]domain.Fragrance, len(records))
	byBrand := make(map[string][]domain.Fragrance)
	for i := range records {
		rec := &records[i]
		if rec.Brand == "" || rec.Name == "" {
			loadErr := errors.CatalogUnavailable("catalog entry missing brand or name")
			idx.recordFailure(loadErr)
			return loadErr
		}
		rec.ID = rec.DeriveID()
		byID[rec.ID] = *rec // last-loaded wins on ID collision
		byBrand[rec.Brand] = append(byBrand[rec.Brand], *rec)
	}

	brands := make([]string, 0, len(byBrand))
	for brand := range byBrand {
		brands = append(brands, brand)
	}
	slices.Sort(brands)

	idx.mu.Lock()
	idx.records = records
	idx.byID = byID
	idx.byBrand = byBrand
	idx.brands = brands
	idx.loaded = true
	idx.lastErr = nil
	idx.mu.Unlock()

	if idx.logger != nil {
		idx.logger.Info("fragrance catalog loaded",
			"path", idx.path,
			"fragrances", len(records),
			"brands", len(brands),
		)
	}
	return nil
}

func (idx *Index) recordFailure(err error) {
	idx.mu.Lock()
	idx.lastErr = err
	idx.mu.Unlock()

	if idx.logger != nil {
		idx.logger.Error("failed to load fragrance catalog", "path", idx.path, "error", err)
	}
}

// Loaded reports whether the catalog has been loaded successfully.
func (idx *Index) Loaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.loaded
}

// LastError returns the most recent load error, or nil. An empty index with
// a nil LastError is still loading or genuinely empty; with a non-nil
// LastError the catalog is unavailable.
func (idx *Index) LastError() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lastErr
}

// Len returns the number of indexed fragrances.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// Get looks up a fragrance by ID.
func (idx *Index) Get(id string) (domain.Fragrance, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	rec, ok := idx.byID[id]
	return rec, ok
}

// GetMany resolves IDs to records, preserving input order and silently
// dropping unknown IDs.
func (idx *Index) GetMany(ids []string) []domain.Fragrance {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	records := make([]domain.Fragrance, 0, len(ids))
	for _, id := range ids {
		if rec, ok := idx.byID[id]; ok {
			records = append(records, rec)
		}
	}
	return records
}

// Records returns a copy of every catalog record in file order.
func (idx *Index) Records() []domain.Fragrance {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return slices.Clone(idx.records)
}

// ByBrand returns all fragrances for an exact brand string, in catalog order.
func (idx *Index) ByBrand(brand string) []domain.Fragrance {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return slices.Clone(idx.byBrand[brand])
}

// Brands returns the sorted list of distinct brand strings.
func (idx *Index) Brands() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return slices.Clone(idx.brands)
}

// Search performs a case-insensitive substring match against brand,
// display brand, and name, then filters by gender. An empty query yields
// an empty result, not the whole catalog.
func (idx *Index) Search(query string, genders domain.GenderSet) []domain.Fragrance {
	if query == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	lowered := strings.ToLower(query)
	var matches []domain.Fragrance
	for i := range idx.records {
		rec := &idx.records[i]
		if !strings.Contains(strings.ToLower(rec.Name), lowered) &&
			!strings.Contains(strings.ToLower(rec.Brand), lowered) &&
			!strings.Contains(strings.ToLower(rec.DisplayBrand()), lowered) {
			continue
		}
		if !rec.MatchesGenders(genders) {
			continue
		}
		matches = append(matches, *rec)
	}
	return matches
}

// SearchByNotes returns fragrances where every requested note is a
// case-insensitive substring of some note in the record's combined
// top+middle+base list. Records without notes never match a non-empty query.
func (idx *Index) SearchByNotes(notes []string) []domain.Fragrance {
	if len(notes) == 0 {
		return nil
	}

	lowered := make([]string, len(notes))
	for i, note := range notes {
		lowered[i] = strings.ToLower(note)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var matches []domain.Fragrance
	for i := range idx.records {
		rec := &idx.records[i]
		all := rec.AllNotes()
		if len(all) == 0 {
			continue
		}
		for j := range all {
			all[j] = strings.ToLower(all[j])
		}

		if matchesAllNotes(all, lowered) {
			matches = append(matches, *rec)
		}
	}
	return matches
}

func matchesAllNotes(recordNotes, queryNotes []string) bool {
	for _, q := range queryNotes {
		found := false
		for _, n := range recordNotes {
			if strings.Contains(n, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DiscoveryQueue returns a randomly shuffled sample of fragrances not in
// excluding and matching the gender filter, truncated to limit. Randomness
// is per-call: repeated calls may return different orders and subsets when
// the candidate pool exceeds limit.
func (idx *Index) DiscoveryQueue(excluding map[string]bool, limit int, genders domain.GenderSet) []domain.Fragrance {
	if limit <= 0 {
		limit = DefaultDiscoveryLimit
	}

	idx.mu.RLock()
	candidates := make([]domain.Fragrance, 0, len(idx.records))
	for i := range idx.records {
		rec := &idx.records[i]
		if excluding[rec.ID] {
			continue
		}
		if !rec.MatchesGenders(genders) {
			continue
		}
		candidates = append(candidates, *rec)
	}
	idx.mu.RUnlock()

	idx.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// Random returns up to count randomly sampled fragrances.
func (idx *Index) Random(count int) []domain.Fragrance {
	return idx.DiscoveryQueue(nil, count, nil)
}
