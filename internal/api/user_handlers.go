package api

import (
	"net/http"

	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

// handleGetCurrentUser returns the authenticated account paired with its
// collection profile.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	account, _, err := s.auth.VerifySession(ctx, getSessionToken(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	profile, err := s.collections.GetProfile(ctx, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, UserResponse{Account: account, Profile: profile}, s.logger)
}

// handleUpdateCurrentUser updates the profile's display name.
func (s *Server) handleUpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := s.collections.UpdateDisplayName(r.Context(), getUserID(r.Context()), req.DisplayName)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleDeleteCurrentUser deletes the account, its profile, and all of its
// sessions. Reviews remain.
func (s *Server) handleDeleteCurrentUser(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.DeleteAccount(r.Context(), getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListOwnReviews returns every review written by the current user.
func (s *Server) handleListOwnReviews(w http.ResponseWriter, r *http.Request) {
	reviews := s.reviews.ReviewsByUser(getUserID(r.Context()))
	response.Success(w, reviews, s.logger)
}
