package api

import (
	"time"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
)

// === Requests ===

// SignUpRequest is the request body for account creation.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=6,max=1024"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// UpdateUserRequest is the request body for profile updates.
type UpdateUserRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// FragranceRefRequest carries a single fragrance reference.
type FragranceRefRequest struct {
	FragranceID string `json:"fragrance_id" validate:"required"`
}

// SignatureRequest sets or clears the signature scent. An empty ID clears it.
type SignatureRequest struct {
	FragranceID string `json:"fragrance_id"`
}

// ReorderTopFiveRequest replaces the top five ordering.
type ReorderTopFiveRequest struct {
	FragranceIDs []string `json:"fragrance_ids" validate:"required"`
}

// ReviewRequest is the request body for creating or replacing a review.
type ReviewRequest struct {
	Rating    int                    `json:"rating" validate:"required,min=1,max=5"`
	Title     string                 `json:"title,omitempty" validate:"omitempty,max=200"`
	Text      string                 `json:"text,omitempty" validate:"omitempty,max=5000"`
	Longevity *int                   `json:"longevity,omitempty" validate:"omitempty,min=1,max=10"`
	Sillage   *int                   `json:"sillage,omitempty" validate:"omitempty,min=1,max=5"`
	Seasonal  *domain.SeasonalRating `json:"seasonal_rating,omitempty"`
}

// Content converts the request into domain review content.
func (r *ReviewRequest) Content() domain.ReviewContent {
	return domain.ReviewContent{
		Rating:    r.Rating,
		Title:     r.Title,
		Text:      r.Text,
		Longevity: r.Longevity,
		Sillage:   r.Sillage,
		Seasonal:  r.Seasonal,
	}
}

// === Responses ===

// AuthResponse is returned from signup, login, and guest endpoints.
type AuthResponse struct {
	Account   *domain.Account `json:"account"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// FragranceView is the list representation of a catalog record.
type FragranceView struct {
	domain.Fragrance
	DisplayBrand string `json:"display_brand"`
}

// FragranceDetail is the single-fragrance representation with review
// aggregates attached.
type FragranceDetail struct {
	FragranceView
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
}

// ShelfResponse lists one of the profile's fragrance shelves with the
// catalog records resolved. IDs missing from the catalog stay in IDs but
// have no entry in Fragrances.
type ShelfResponse struct {
	IDs        []string        `json:"ids"`
	Fragrances []FragranceView `json:"fragrances"`
}

// CollectionResponse is the full collection state for the current user.
type CollectionResponse struct {
	Collection     ShelfResponse `json:"collection"`
	TopFive        ShelfResponse `json:"top_five"`
	SignatureScent string        `json:"signature_scent,omitempty"`
}

// MutationResponse reports the outcome of a profile mutation. Changed is
// false when the request was a no-op, e.g. adding an already-owned
// fragrance or exceeding the top five limit.
type MutationResponse struct {
	Changed bool            `json:"changed"`
	Profile *domain.Profile `json:"profile"`
}

// UserResponse pairs the account with its collection profile.
type UserResponse struct {
	Account *domain.Account `json:"account"`
	Profile *domain.Profile `json:"profile"`
}

func newFragranceView(f domain.Fragrance) FragranceView {
	return FragranceView{Fragrance: f, DisplayBrand: f.DisplayBrand()}
}

func newFragranceViews(records []domain.Fragrance) []FragranceView {
	views := make([]FragranceView, len(records))
	for i, f := range records {
		views[i] = newFragranceView(f)
	}
	return views
}
