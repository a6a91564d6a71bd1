package api

import (
	"net/http"

	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

// handleGetWishlist returns the current user's wishlist with catalog
// records resolved.
func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	profile, err := s.collections.GetProfile(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, s.shelfResponse(profile.Wishlist), s.logger)
}

// handleAddToWishlist adds a fragrance to the wishlist. Changed is false
// when the fragrance is already owned or already wanted.
func (s *Server) handleAddToWishlist(w http.ResponseWriter, r *http.Request) {
	s.mutateWithCatalogCheck(w, r, s.collections.AddToWishlist)
}

// handleRemoveFromWishlist removes a fragrance from the wishlist.
func (s *Server) handleRemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	s.mutateByPathID(w, r, s.collections.RemoveFromWishlist)
}

// handleClearWishlist empties the wishlist.
func (s *Server) handleClearWishlist(w http.ResponseWriter, r *http.Request) {
	profile, changed, err := s.collections.ClearWishlist(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}
