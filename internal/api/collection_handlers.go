package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

// handleGetCollection returns the current user's collection, top five, and
// signature scent with catalog records resolved.
func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	profile, err := s.collections.GetProfile(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	resp := CollectionResponse{
		Collection:     s.shelfResponse(profile.Collection),
		TopFive:        s.shelfResponse(profile.TopFive),
		SignatureScent: profile.SignatureScent,
	}
	response.Success(w, resp, s.logger)
}

// handleAddToCollection adds a fragrance to the collection. It must exist
// in the catalog; adding removes it from the wishlist.
func (s *Server) handleAddToCollection(w http.ResponseWriter, r *http.Request) {
	s.mutateWithCatalogCheck(w, r, s.collections.AddToCollection)
}

// handleRemoveFromCollection removes a fragrance, cascading to the top
// five and signature scent.
func (s *Server) handleRemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	s.mutateByPathID(w, r, s.collections.RemoveFromCollection)
}

// handleClearCollection empties the collection entirely.
func (s *Server) handleClearCollection(w http.ResponseWriter, r *http.Request) {
	profile, changed, err := s.collections.ClearCollection(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}

// handleAddToTopFive appends an owned fragrance to the top five. Changed
// is false when the list is full or the fragrance is not owned.
func (s *Server) handleAddToTopFive(w http.ResponseWriter, r *http.Request) {
	var req FragranceRefRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	profile, changed, err := s.collections.AddToTopFive(r.Context(), getUserID(r.Context()), req.FragranceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}

// handleReorderTopFive replaces the top five with the given ordering.
// Unowned and duplicate IDs are dropped, and the result is truncated to
// the top five limit.
func (s *Server) handleReorderTopFive(w http.ResponseWriter, r *http.Request) {
	var req ReorderTopFiveRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	profile, changed, err := s.collections.ReorderTopFive(r.Context(), getUserID(r.Context()), req.FragranceIDs)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}

// handleRemoveFromTopFive removes a fragrance from the top five only.
func (s *Server) handleRemoveFromTopFive(w http.ResponseWriter, r *http.Request) {
	s.mutateByPathID(w, r, s.collections.RemoveFromTopFive)
}

// handleSetSignature sets the signature scent to an owned fragrance, or
// clears it when the request carries an empty ID.
func (s *Server) handleSetSignature(w http.ResponseWriter, r *http.Request) {
	var req SignatureRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	profile, changed, err := s.collections.SetSignature(r.Context(), getUserID(r.Context()), req.FragranceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}

// shelfResponse resolves a list of fragrance IDs against the catalog.
func (s *Server) shelfResponse(ids []string) ShelfResponse {
	return ShelfResponse{
		IDs:        ids,
		Fragrances: newFragranceViews(s.catalog.GetMany(ids)),
	}
}

type mutationFunc func(ctx context.Context, userID, fragranceID string) (*domain.Profile, bool, error)

// mutateWithCatalogCheck decodes a fragrance reference from the body,
// verifies it exists in the catalog, and applies the mutation.
func (s *Server) mutateWithCatalogCheck(w http.ResponseWriter, r *http.Request, fn mutationFunc) {
	if !s.catalogReady(w, r) {
		return
	}

	var req FragranceRefRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := s.catalog.Get(req.FragranceID); !ok {
		response.NotFound(w, "Fragrance not found", s.logger)
		return
	}

	profile, changed, err := fn(r.Context(), getUserID(r.Context()), req.FragranceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}

// mutateByPathID applies a removal-style mutation keyed by the fragranceID
// path parameter. No catalog check: removals of since-delisted fragrances
// must still work.
func (s *Server) mutateByPathID(w http.ResponseWriter, r *http.Request, fn mutationFunc) {
	fragranceID := chi.URLParam(r, "fragranceID")
	if fragranceID == "" {
		response.BadRequest(w, "Fragrance ID is required", s.logger)
		return
	}

	profile, changed, err := fn(r.Context(), getUserID(r.Context()), fragranceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, MutationResponse{Changed: changed, Profile: profile}, s.logger)
}
