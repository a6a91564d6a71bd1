// Package search provides relevance-ranked full-text search over the
// fragrance catalog. It supplements the catalog package's exact substring
// operations with analyzed, scored matching (typeahead, typo tolerance).
//
// The index is held in memory and rebuilt from the catalog on startup:
// the catalog is small (low thousands of records) and immutable
// in-process, so there is nothing to persist.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

// Index wraps an in-memory Bleve index over the fragrance catalog.
//
// Thread safety: all public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Hit is a single scored search result.
type Hit struct {
	ID           string  `json:"id"`
	Score        float64 `json:"score"`
	Brand        string  `json:"brand,omitempty"`
	DisplayBrand string  `json:"display_brand,omitempty"`
	Name         string  `json:"name,omitempty"`
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex(logger *slog.Logger) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}
	return &Index{index: idx, logger: logger}, nil
}

// IndexCatalog (re)indexes the full catalog in one batch.
func (s *Index) IndexCatalog(ctx context.Context, records []domain.Fragrance) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.index.NewBatch()
	for _, rec := range records {
		doc := DocumentFromFragrance(rec)
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("index fragrance %s: %w", doc.ID, err)
		}
	}

	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("apply index batch: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("search index built", "documents", len(records))
	}
	return nil
}

// Search runs a relevance-ranked query over brand, display brand, name,
// and notes. Results are ordered by descending score.
func (s *Index) Search(ctx context.Context, queryString string, limit int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if queryString == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(queryString), limit, 0, false)
	req.Fields = []string{"brand", "display_brand", "name"}

	result, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", queryString, err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if v, ok := h.Fields["brand"].(string); ok {
			hit.Brand = v
		}
		if v, ok := h.Fields["display_brand"].(string); ok {
			hit.DisplayBrand = v
		}
		if v, ok := h.Fields["name"].(string); ok {
			hit.Name = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// buildQuery combines an analyzed match (with light fuzziness) and a prefix
// match so partial typing still surfaces results.
func buildQuery(queryString string) query.Query {
	match := bleve.NewMatchQuery(queryString)
	match.SetFuzziness(1)

	// Prefix queries bypass analysis, so lowercase to match indexed terms.
	lowered := strings.ToLower(queryString)

	prefixName := bleve.NewPrefixQuery(lowered)
	prefixName.SetField("name")

	prefixBrand := bleve.NewPrefixQuery(lowered)
	prefixBrand.SetField("display_brand")

	return bleve.NewDisjunctionQuery(match, prefixName, prefixBrand)
}

// DocCount returns the number of indexed documents.
func (s *Index) DocCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
