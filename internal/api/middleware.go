package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/scentsearchapp/scentsearch-server/internal/http/response"
	"github.com/scentsearchapp/scentsearch-server/internal/ratelimit"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID      contextKey = "user_id"
	contextKeyDisplayName contextKey = "display_name"
	contextKeySessionTok  contextKey = "session_token"
)

// requireAuth validates the bearer token and attaches the account to the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w, "Missing or malformed authorization header", s.logger)
			return
		}

		account, session, err := s.auth.VerifySession(r.Context(), token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired session", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, account.ID)
		ctx = context.WithValue(ctx, contextKeyDisplayName, account.DisplayName)
		ctx = context.WithValue(ctx, contextKeySessionTok, session.Token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimitByIP returns middleware that rate limits requests per client IP.
func (s *Server) rateLimitByIP(limiter *ratelimit.KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				s.logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
// Returns empty string when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// clientIP extracts the client IP, preferring proxy headers over RemoteAddr.
// chi's RealIP middleware normally resolves this already.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip, _, found := strings.Cut(xff, ","); found {
			return strings.TrimSpace(ip)
		}
		return xff
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// getDisplayName extracts the authenticated user's display name from
// request context.
func getDisplayName(ctx context.Context) string {
	if name, ok := ctx.Value(contextKeyDisplayName).(string); ok {
		return name
	}
	return ""
}

// getSessionToken extracts the session token from request context.
func getSessionToken(ctx context.Context) string {
	if token, ok := ctx.Value(contextKeySessionTok).(string); ok {
		return token
	}
	return ""
}
