package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

// Document is the flattened fragrance representation stored in the index.
type Document struct {
	ID           string   `json:"id"`
	Brand        string   `json:"brand"`
	DisplayBrand string   `json:"display_brand"`
	Name         string   `json:"name"`
	Notes        []string `json:"notes,omitempty"`
	Gender       string   `json:"gender,omitempty"`
	Year         string   `json:"year,omitempty"`
}

// DocumentFromFragrance converts a catalog record into its indexed form.
func DocumentFromFragrance(f domain.Fragrance) Document {
	doc := Document{
		ID:           f.ID,
		Brand:        f.Brand,
		DisplayBrand: f.DisplayBrand(),
		Name:         f.Name,
		Notes:        f.AllNotes(),
		Year:         f.Year,
	}
	if g, ok := f.GenderCategory(); ok {
		doc.Gender = string(g)
	}
	return doc
}

// buildMapping constructs the index mapping for fragrance documents.
// Text fields use the standard analyzer; id and gender are exact-match keywords.
func buildMapping() mapping.IndexMapping {
	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"

	text := bleve.NewTextFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("id", keyword)
	doc.AddFieldMappingsAt("gender", keyword)
	doc.AddFieldMappingsAt("brand", text)
	doc.AddFieldMappingsAt("display_brand", text)
	doc.AddFieldMappingsAt("name", text)
	doc.AddFieldMappingsAt("notes", text)
	doc.AddFieldMappingsAt("year", keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}
