package domain

import "time"

// Rating bounds for reviews and the sillage scale.
const (
	MinRating = 1
	MaxRating = 5
	// MaxLongevity is the top of the longevity scale, in hours.
	MaxLongevity = 10
)

// SeasonalRating scores a fragrance per season (1-5 each).
type SeasonalRating struct {
	Spring int `json:"spring"`
	Summer int `json:"summer"`
	Fall   int `json:"fall"`
	Winter int `json:"winter"`
}

// BestSeason returns the name of the highest-scored season.
func (s *SeasonalRating) BestSeason() string {
	best, score := "Spring", s.Spring
	if s.Summer > score {
		best, score = "Summer", s.Summer
	}
	if s.Fall > score {
		best, score = "Fall", s.Fall
	}
	if s.Winter > score {
		best = "Winter"
	}
	return best
}

// Review is a user's review of a fragrance. At most one review exists per
// (FragranceID, UserID) pair; writing a second replaces the first in place.
type Review struct {
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ID              string          `json:"id"`
	FragranceID     string          `json:"fragrance_id"`
	UserID          string          `json:"user_id"`
	UserDisplayName string          `json:"user_display_name,omitempty"`
	Title           string          `json:"title,omitempty"`
	Text            string          `json:"text,omitempty"`
	Rating          int             `json:"rating"`
	Longevity       *int            `json:"longevity,omitempty"` // 1-10 hours
	Sillage         *int            `json:"sillage,omitempty"`   // 1-5
	Seasonal        *SeasonalRating `json:"seasonal_rating,omitempty"`
}

// ReviewContent carries the mutable fields of a review.
type ReviewContent struct {
	Rating    int
	Title     string
	Text      string
	Longevity *int
	Sillage   *int
	Seasonal  *SeasonalRating
}

// NewReview creates a review with the rating clamped to [MinRating, MaxRating].
func NewReview(id, fragranceID, userID, userDisplayName string, content ReviewContent) *Review {
	now := time.Now()
	r := &Review{
		ID:              id,
		FragranceID:     fragranceID,
		UserID:          userID,
		UserDisplayName: userDisplayName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.Apply(content)
	r.UpdatedAt = now
	return r
}

// Apply replaces the mutable fields and bumps UpdatedAt.
// Identity fields (ID, FragranceID, UserID, CreatedAt) are untouched.
func (r *Review) Apply(content ReviewContent) {
	r.Rating = ClampRating(content.Rating)
	r.Title = content.Title
	r.Text = content.Text
	r.Longevity = content.Longevity
	r.Sillage = content.Sillage
	r.Seasonal = content.Seasonal
	r.UpdatedAt = time.Now()
}

// ClampRating clamps a star rating to [MinRating, MaxRating].
func ClampRating(rating int) int {
	if rating < MinRating {
		return MinRating
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}
