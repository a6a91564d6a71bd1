package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

// handleGetFragrance returns a single catalog record with its review
// aggregates.
func (s *Server) handleGetFragrance(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	id := chi.URLParam(r, "id")
	fragrance, ok := s.catalog.Get(id)
	if !ok {
		response.NotFound(w, "Fragrance not found", s.logger)
		return
	}

	detail := FragranceDetail{
		FragranceView: newFragranceView(fragrance),
		AverageRating: s.reviews.AverageRating(id),
		ReviewCount:   s.reviews.ReviewCountFor(id),
	}
	response.Success(w, detail, s.logger)
}

// handleListBrands returns all catalog brands, sorted.
func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}
	response.Success(w, s.catalog.Brands(), s.logger)
}

// handleListBrandFragrances returns a brand's fragrances. The brand path
// segment must match the raw catalog brand exactly, as listed by
// handleListBrands.
func (s *Server) handleListBrandFragrances(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	brand := chi.URLParam(r, "brand")
	if decoded, err := url.PathUnescape(brand); err == nil {
		brand = decoded
	}

	records := s.catalog.ByBrand(brand)
	if len(records) == 0 {
		response.NotFound(w, "Brand not found", s.logger)
		return
	}
	response.Success(w, newFragranceViews(records), s.logger)
}
