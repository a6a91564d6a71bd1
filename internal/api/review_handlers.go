package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

// handleListFragranceReviews returns all reviews of a fragrance together
// with its rating aggregate.
func (s *Server) handleListFragranceReviews(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	id := chi.URLParam(r, "id")
	if _, ok := s.catalog.Get(id); !ok {
		response.NotFound(w, "Fragrance not found", s.logger)
		return
	}

	resp := map[string]any{
		"reviews":        s.reviews.ReviewsFor(id),
		"average_rating": s.reviews.AverageRating(id),
		"review_count":   s.reviews.ReviewCountFor(id),
	}
	response.Success(w, resp, s.logger)
}

// handleUpsertReview creates the current user's review of a fragrance, or
// replaces their existing one in place.
func (s *Server) handleUpsertReview(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	fragranceID := chi.URLParam(r, "id")
	if _, ok := s.catalog.Get(fragranceID); !ok {
		response.NotFound(w, "Fragrance not found", s.logger)
		return
	}

	var req ReviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	existing := s.reviews.ReviewBy(fragranceID, getUserID(ctx))

	review, err := s.reviews.Upsert(ctx, fragranceID, getUserID(ctx), getDisplayName(ctx), req.Content())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if existing == nil {
		response.Created(w, review, s.logger)
		return
	}
	response.Success(w, review, s.logger)
}

// handleDeleteReview deletes a review by ID. Only the author may delete it.
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		response.BadRequest(w, "Review ID is required", s.logger)
		return
	}

	if err := s.reviews.Delete(r.Context(), reviewID, getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
