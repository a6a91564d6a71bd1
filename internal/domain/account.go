package domain

import (
	"encoding/base64"
	"strings"
	"time"
)

// AuthProvider identifies how an account was created.
type AuthProvider string

const (
	// ProviderLocal is password-less local email auth.
	ProviderLocal AuthProvider = "local"
	// ProviderGuest is the auto-created guest account.
	ProviderGuest AuthProvider = "guest"
)

// Account is a local user identity. There is no password storage or
// cryptographic verification: the account ID is a deterministic function
// of the email, so the same email always maps back to the same account
// and its persisted profile.
type Account struct {
	CreatedAt   time.Time    `json:"created_at"`
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"display_name,omitempty"`
	Provider    AuthProvider `json:"provider"`
}

// DeriveAccountID computes the deterministic account ID for an email.
func DeriveAccountID(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return "user-" + base64.RawURLEncoding.EncodeToString([]byte(normalized))
}

// Session is an opaque local session token record.
type Session struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
