package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate reads the JSON request body into dest and runs struct
// validation. Writes the error response itself and returns false on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.UnmarshalRead(r.Body, dest); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return false
	}
	if err := validate.Struct(dest); err != nil {
		response.BadRequest(w, validationMessage(err), s.logger)
		return false
	}
	return true
}

// validationMessage turns the first validator error into a client-facing
// message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !asValidationErrors(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "please enter a valid email address"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	default:
		return field + " is invalid"
	}
}

func asValidationErrors(err error, dest *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*dest = verrs
	}
	return ok
}

// catalogReady ensures the catalog is loaded before a read. Writes the
// error response itself and returns false when the catalog is unavailable.
func (s *Server) catalogReady(w http.ResponseWriter, r *http.Request) bool {
	if err := s.catalog.Load(r.Context()); err != nil {
		s.logger.Error("catalog unavailable", "error", err)
		response.HandleError(w, err, s.logger)
		return false
	}
	return true
}

// parseGenderSet reads the genders query parameter, a comma-separated list
// of gender terms. An empty or absent parameter matches everything.
func parseGenderSet(r *http.Request) domain.GenderSet {
	raw := r.URL.Query().Get("genders")
	if raw == "" {
		return nil
	}
	return domain.ParseGenderSet(strings.Split(raw, ","))
}

// parseLimit reads a positive integer query parameter, falling back to def
// when absent or unparseable.
func parseLimit(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
