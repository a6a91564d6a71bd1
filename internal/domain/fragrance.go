package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Gender is the normalized gender category of a fragrance.
type Gender string

const (
	// GenderAll matches every fragrance regardless of category.
	GenderAll Gender = "all"
	// GenderMen is the men's category.
	GenderMen Gender = "men"
	// GenderWomen is the women's category.
	GenderWomen Gender = "women"
	// GenderUnisex is the unisex category.
	GenderUnisex Gender = "unisex"
)

// genderSynonyms maps raw catalog gender strings to normalized categories.
// Unmapped values are treated as "no gender data".
var genderSynonyms = map[string]Gender{
	"men": GenderMen, "male": GenderMen, "him": GenderMen, "homme": GenderMen,
	"women": GenderWomen, "female": GenderWomen, "her": GenderWomen, "femme": GenderWomen,
	"unisex": GenderUnisex, "shared": GenderUnisex,
}

// ParseGender normalizes a raw gender string to a category.
// Returns false if the value is empty or not a known synonym.
func ParseGender(raw string) (Gender, bool) {
	g, ok := genderSynonyms[strings.ToLower(raw)]
	return g, ok
}

// GenderSet is a multi-select gender filter.
type GenderSet map[Gender]bool

// ParseGenderSet builds a GenderSet from raw filter values.
// Unknown values other than "all" are ignored.
func ParseGenderSet(values []string) GenderSet {
	set := make(GenderSet, len(values))
	for _, v := range values {
		lowered := strings.ToLower(strings.TrimSpace(v))
		if lowered == string(GenderAll) {
			set[GenderAll] = true
			continue
		}
		if g, ok := ParseGender(lowered); ok {
			set[g] = true
		}
	}
	return set
}

// Notes is the fragrance note pyramid.
type Notes struct {
	Top    []string `json:"top,omitempty"`
	Middle []string `json:"middle,omitempty"`
	Base   []string `json:"base,omitempty"`
}

// All returns the combined top, middle, and base notes.
func (n *Notes) All() []string {
	all := make([]string, 0, len(n.Top)+len(n.Middle)+len(n.Base))
	all = append(all, n.Top...)
	all = append(all, n.Middle...)
	all = append(all, n.Base...)
	return all
}

// Fragrance is an immutable catalog record.
// ID is derived from the raw catalog fields at load time and is stable
// across reloads of the same catalog file, so persisted profile and review
// references stay valid.
type Fragrance struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Name     string `json:"name"`
	Notes    *Notes `json:"notes,omitempty"`
	Year     string `json:"year,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// DeriveID computes the deterministic record ID from brand, name, year,
// and the trailing filename segment of the image URL. Records with
// identical components collide to the same ID (last-loaded wins).
func (f *Fragrance) DeriveID() string {
	brandPart := strings.ReplaceAll(strings.ToLower(f.Brand), " ", "-")

	namePart := strings.ReplaceAll(strings.ToLower(f.Name), " ", "-")
	namePart = strings.ReplaceAll(namePart, "'", "")
	namePart = strings.ReplaceAll(namePart, `"`, "")

	yearPart := f.Year
	if yearPart == "" {
		yearPart = "0"
	}

	imagePart := "0"
	if f.ImageURL != "" {
		segment := f.ImageURL
		if idx := strings.LastIndex(segment, "/"); idx >= 0 {
			segment = segment[idx+1:]
		}
		imagePart = strings.ReplaceAll(segment, ".jpg", "")
	}

	return brandPart + "_" + namePart + "_" + yearPart + "_" + imagePart
}

// DisplayBrand returns the brand with separators normalized and each word capitalized.
func (f *Fragrance) DisplayBrand() string {
	return cases.Title(language.English).String(strings.ReplaceAll(f.Brand, "-", " "))
}

// GenderCategory returns the normalized gender category.
// Returns false if the record carries no usable gender data.
func (f *Fragrance) GenderCategory() (Gender, bool) {
	return ParseGender(f.Gender)
}

// MatchesGenders reports whether the record passes a multi-select gender filter.
// An empty filter or one containing "all" passes everything; records without
// gender data pass every filter so thin catalog metadata never hides them.
func (f *Fragrance) MatchesGenders(filters GenderSet) bool {
	if len(filters) == 0 || filters[GenderAll] {
		return true
	}
	category, ok := f.GenderCategory()
	if !ok {
		return true
	}
	return filters[category]
}

// AllNotes returns the combined note list, or nil if the record has no notes.
func (f *Fragrance) AllNotes() []string {
	if f.Notes == nil {
		return nil
	}
	return f.Notes.All()
}
