package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

func testRecords() []domain.Fragrance {
	records := []domain.Fragrance{
		{
			Brand: "dior",
			Name:  "Sauvage Elixir",
			Year:  "2021",
			Notes: &domain.Notes{Top: []string{"cinnamon"}, Base: []string{"sandalwood"}},
		},
		{
			Brand:  "chanel",
			Name:   "Coco Mademoiselle",
			Year:   "2001",
			Gender: "women",
		},
		{
			Brand: "le-labo",
			Name:  "Santal 33",
			Year:  "2011",
			Notes: &domain.Notes{Base: []string{"sandalwood", "leather"}},
		},
	}
	for i := range records {
		records[i].ID = records[i].DeriveID()
	}
	return records
}

func setupIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewMemoryIndex(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	require.NoError(t, idx.IndexCatalog(context.Background(), testRecords()))
	return idx
}

func TestIndex_DocCount(t *testing.T) {
	idx := setupIndex(t)

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestIndex_Search_ExactWord(t *testing.T) {
	idx := setupIndex(t)

	hits, err := idx.Search(context.Background(), "sauvage", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Sauvage Elixir", hits[0].Name)
	assert.Positive(t, hits[0].Score)
}

func TestIndex_Search_Prefix(t *testing.T) {
	idx := setupIndex(t)

	// Partial typing should still surface results.
	hits, err := idx.Search(context.Background(), "sant", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Santal 33", hits[0].Name)
}

func TestIndex_Search_Typo(t *testing.T) {
	idx := setupIndex(t)

	// One edit away from "sauvage".
	hits, err := idx.Search(context.Background(), "savage", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Sauvage Elixir", hits[0].Name)
}

func TestIndex_Search_Notes(t *testing.T) {
	idx := setupIndex(t)

	hits, err := idx.Search(context.Background(), "sandalwood", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestIndex_Search_LimitRespected(t *testing.T) {
	idx := setupIndex(t)

	hits, err := idx.Search(context.Background(), "sandalwood", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_Search_EmptyQuery(t *testing.T) {
	idx := setupIndex(t)

	hits, err := idx.Search(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Search_NoMatch(t *testing.T) {
	idx := setupIndex(t)

	hits, err := idx.Search(context.Background(), "zzzzzz", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDocumentFromFragrance(t *testing.T) {
	f := domain.Fragrance{
		ID:     "dior_sauvage_2015_sauvage",
		Brand:  "tom-ford",
		Name:   "Oud Wood",
		Gender: "shared",
		Notes:  &domain.Notes{Top: []string{"oud"}},
	}

	doc := DocumentFromFragrance(f)

	assert.Equal(t, f.ID, doc.ID)
	assert.Equal(t, "Tom Ford", doc.DisplayBrand)
	assert.Equal(t, "unisex", doc.Gender)
	assert.Equal(t, []string{"oud"}, doc.Notes)
}
