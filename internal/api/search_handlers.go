package api

import (
	"net/http"
	"strings"

	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

const defaultSearchLimit = 25

// handleSearch performs a substring search over name and brand, with an
// optional comma-separated genders filter.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.BadRequest(w, "Query parameter q is required", s.logger)
		return
	}

	records := s.catalog.Search(query, parseGenderSet(r))
	response.Success(w, newFragranceViews(records), s.logger)
}

// handleSearchByNotes returns fragrances containing every requested note,
// passed as a comma-separated notes parameter.
func (s *Server) handleSearchByNotes(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	raw := r.URL.Query().Get("notes")
	var notes []string
	for _, note := range strings.Split(raw, ",") {
		if note = strings.TrimSpace(note); note != "" {
			notes = append(notes, note)
		}
	}
	if len(notes) == 0 {
		response.BadRequest(w, "Query parameter notes is required", s.logger)
		return
	}

	records := s.catalog.SearchByNotes(notes)
	response.Success(w, newFragranceViews(records), s.logger)
}

// handleFullTextSearch runs the query through the bleve index, which adds
// fuzzy and prefix matching on top of plain substring search.
func (s *Server) handleFullTextSearch(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w, r) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.BadRequest(w, "Query parameter q is required", s.logger)
		return
	}

	limit := parseLimit(r, "limit", defaultSearchLimit)
	hits, err := s.searchIndex.Search(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("full text search failed", "error", err, "query", query)
		response.InternalError(w, "Search failed", s.logger)
		return
	}

	response.Success(w, hits, s.logger)
}
