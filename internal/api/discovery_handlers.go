package api

import (
	"net/http"

	"github.com/scentsearchapp/scentsearch-server/internal/catalog"
	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

// handleDiscoveryQueue returns a shuffled sample of fragrances the current
// user has not yet triaged into collection, wishlist, or passed-on.
func (s *Server) handleDiscoveryQueue(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	userID := getUserID(r.Context())
	seen, err := s.collections.SeenIDs(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	limit := parseLimit(r, "limit", catalog.DefaultDiscoveryLimit)
	records := s.catalog.DiscoveryQueue(seen, limit, parseGenderSet(r))
	response.Success(w, newFragranceViews(records), s.logger)
}

// handleDiscoveryRandom returns a random catalog sample without any
// per-user exclusions. Public.
func (s *Server) handleDiscoveryRandom(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	count := parseLimit(r, "count", catalog.DefaultDiscoveryLimit)
	response.Success(w, newFragranceViews(s.catalog.Random(count)), s.logger)
}

// handleDiscoveryPass records a skipped fragrance so the queue stops
// offering it. Idempotent.
func (s *Server) handleDiscoveryPass(w http.ResponseWriter, r *http.Request) {
	var req FragranceRefRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	userID := getUserID(r.Context())
	profile, changed, err := s.collections.PassOn(r.Context(), userID, req.FragranceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}

// handleClearPassedOn forgets every passed-on fragrance, making them
// eligible for the discovery queue again.
func (s *Server) handleClearPassedOn(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	profile, changed, err := s.collections.ClearPassedOn(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}
