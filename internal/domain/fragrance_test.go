package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFragrance_DeriveID(t *testing.T) {
	f := &Fragrance{
		Brand:    "dior",
		Name:     "Sauvage Elixir",
		Year:     "2021",
		ImageURL: "https://example.com/images/sauvage-elixir.jpg",
	}

	assert.Equal(t, "dior_sauvage-elixir_2021_sauvage-elixir", f.DeriveID())
}

func TestFragrance_DeriveID_StripsQuotesFromNameOnly(t *testing.T) {
	f := &Fragrance{
		Brand: "L'Artisan Parfumeur",
		Name:  "L'Eau d'Ambre",
	}

	// Apostrophes survive in the brand part but not in the name part.
	assert.Equal(t, "l'artisan-parfumeur_leau-dambre_0_0", f.DeriveID())
}

func TestFragrance_DeriveID_MissingYearAndImage(t *testing.T) {
	f := &Fragrance{Brand: "Chanel", Name: "No 5"}

	assert.Equal(t, "chanel_no-5_0_0", f.DeriveID())
}

func TestFragrance_DeriveID_ImageFilenameSegmentOnly(t *testing.T) {
	f := &Fragrance{
		Brand:    "Creed",
		Name:     "Aventus",
		Year:     "2010",
		ImageURL: "aventus.jpg",
	}

	assert.Equal(t, "creed_aventus_2010_aventus", f.DeriveID())
}

func TestFragrance_DeriveID_StableAcrossCalls(t *testing.T) {
	f := &Fragrance{Brand: "Tom Ford", Name: "Oud Wood", Year: "2007"}

	assert.Equal(t, f.DeriveID(), f.DeriveID())
}

func TestFragrance_DisplayBrand(t *testing.T) {
	tests := []struct {
		brand string
		want  string
	}{
		{"tom-ford", "Tom Ford"},
		{"dior", "Dior"},
		{"maison margiela", "Maison Margiela"},
	}

	for _, tt := range tests {
		f := &Fragrance{Brand: tt.brand}
		assert.Equal(t, tt.want, f.DisplayBrand())
	}
}

func TestParseGender_Synonyms(t *testing.T) {
	tests := []struct {
		raw  string
		want Gender
	}{
		{"men", GenderMen},
		{"Male", GenderMen},
		{"him", GenderMen},
		{"HOMME", GenderMen},
		{"women", GenderWomen},
		{"female", GenderWomen},
		{"her", GenderWomen},
		{"femme", GenderWomen},
		{"unisex", GenderUnisex},
		{"shared", GenderUnisex},
	}

	for _, tt := range tests {
		got, ok := ParseGender(tt.raw)
		assert.True(t, ok, "expected %q to parse", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseGender_Unknown(t *testing.T) {
	for _, raw := range []string{"", "other", "n/a"} {
		_, ok := ParseGender(raw)
		assert.False(t, ok, "expected %q not to parse", raw)
	}
}

func TestFragrance_MatchesGenders(t *testing.T) {
	men := &Fragrance{Gender: "homme"}
	women := &Fragrance{Gender: "female"}
	noData := &Fragrance{Gender: "mystery"}

	menOnly := ParseGenderSet([]string{"men"})
	assert.True(t, men.MatchesGenders(menOnly))
	assert.False(t, women.MatchesGenders(menOnly))

	// Records without usable gender data pass every filter.
	assert.True(t, noData.MatchesGenders(menOnly))

	// Empty filter and "all" match everything.
	assert.True(t, women.MatchesGenders(nil))
	assert.True(t, women.MatchesGenders(ParseGenderSet([]string{"all", "men"})))
}

func TestParseGenderSet_IgnoresUnknownValues(t *testing.T) {
	set := ParseGenderSet([]string{"men", "bogus", " Unisex "})

	assert.True(t, set[GenderMen])
	assert.True(t, set[GenderUnisex])
	assert.Len(t, set, 2)
}

func TestFragrance_AllNotes(t *testing.T) {
	f := &Fragrance{
		Notes: &Notes{
			Top:    []string{"bergamot"},
			Middle: []string{"lavender", "geranium"},
			Base:   []string{"ambroxan"},
		},
	}

	assert.Equal(t, []string{"bergamot", "lavender", "geranium", "ambroxan"}, f.AllNotes())

	bare := &Fragrance{}
	assert.Nil(t, bare.AllNotes())
}
