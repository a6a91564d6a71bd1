package api

import (
	"net/http"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
)

// handleSignUp creates a local account and returns an initial session.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	account, session, err := s.auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, authResponse(account, session), s.logger)
}

// handleLogin resolves the email to its account, creating it on first
// sight, and issues a fresh session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	account, session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, authResponse(account, session), s.logger)
}

// handleGuest creates a throwaway guest account and session.
func (s *Server) handleGuest(w http.ResponseWriter, r *http.Request) {
	account, session, err := s.auth.Guest(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, authResponse(account, session), s.logger)
}

// handleLogout revokes the bearer session. Succeeds even when the token is
// already gone.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		response.Unauthorized(w, "Missing or malformed authorization header", s.logger)
		return
	}

	if err := s.auth.Logout(r.Context(), token); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

func authResponse(account *domain.Account, session *domain.Session) AuthResponse {
	return AuthResponse{
		Account:   account,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}
