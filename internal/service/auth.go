package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/scentsearchapp/scentsearch-server/internal/domain"
	domainerrors "github.com/scentsearchapp/scentsearch-server/internal/errors"
	"github.com/scentsearchapp/scentsearch-server/internal/id"
	"github.com/scentsearchapp/scentsearch-server/internal/store"
)

// minPasswordLength applies to sign-up only. The password is never stored
// or verified afterwards; local auth is identity-only.
const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements password-less local authentication. Account IDs
// are derived deterministically from the email, so signing in from a fresh
// install with the same email recovers the same profile. Sessions are
// opaque server-issued tokens with an expiry.
type AuthService struct {
	store           *store.Store
	collections     *CollectionService
	logger          *slog.Logger
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(store *store.Store, collections *CollectionService, sessionDuration time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:           store,
		collections:     collections,
		logger:          logger,
		sessionDuration: sessionDuration,
	}
}

// SignUp creates a local account and an initial session. The email must
// look like an email and the password must meet the minimum length, but
// the password is discarded after validation.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*domain.Account, *domain.Session, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, nil, domainerrors.Validation("please enter a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, nil, domainerrors.Validationf("password must be at least %d characters", minPasswordLength)
	}

	accountID := domain.DeriveAccountID(email)
	if _, err := s.store.GetAccount(ctx, accountID); err == nil {
		return nil, nil, domainerrors.Conflict("an account with this email already exists")
	} else if !domainerrors.Is(err, store.ErrAccountNotFound) {
		return nil, nil, err
	}

	if displayName == "" {
		displayName = displayNameFromEmail(email)
	}
	account := &domain.Account{
		CreatedAt:   time.Now(),
		ID:          accountID,
		Email:       email,
		DisplayName: displayName,
		Provider:    domain.ProviderLocal,
	}
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, nil, err
	}
	if _, err := s.collections.EnsureProfile(ctx, account.ID, account.Email, account.DisplayName); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("account created", "user_id", account.ID)
	return account, session, nil
}

// Login resolves the email to its deterministic account, creating the
// account on first sight, and issues a fresh session. There is no password
// check; the password parameter exists to keep the request shape stable
// for a future credentialed provider.
func (s *AuthService) Login(ctx context.Context, email, _ string) (*domain.Account, *domain.Session, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, nil, domainerrors.Validation("please enter a valid email address")
	}

	accountID := domain.DeriveAccountID(email)
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if !domainerrors.Is(err, store.ErrAccountNotFound) {
			return nil, nil, err
		}
		account = &domain.Account{
			CreatedAt:   time.Now(),
			ID:          accountID,
			Email:       email,
			DisplayName: displayNameFromEmail(email),
			Provider:    domain.ProviderLocal,
		}
		if err := s.store.SaveAccount(ctx, account); err != nil {
			return nil, nil, err
		}
		s.logger.Info("account created on first login", "user_id", account.ID)
	}

	if _, err := s.collections.EnsureProfile(ctx, account.ID, account.Email, account.DisplayName); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}
	return account, session, nil
}

// Guest creates a throwaway guest account with its own profile and session.
// Guest IDs are random, so a new guest never collides with an email-derived
// account.
func (s *AuthService) Guest(ctx context.Context) (*domain.Account, *domain.Session, error) {
	guestID, err := id.Generate("guest")
	if err != nil {
		return nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate guest id")
	}

	account := &domain.Account{
		CreatedAt:   time.Now(),
		ID:          guestID,
		DisplayName: "Guest",
		Provider:    domain.ProviderGuest,
	}
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, nil, err
	}
	if _, err := s.collections.EnsureProfile(ctx, account.ID, "", account.DisplayName); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("guest account created", "user_id", account.ID)
	return account, session, nil
}

// Logout invalidates a session token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.store.DeleteSession(ctx, token); err != nil {
		if domainerrors.Is(err, store.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// VerifySession resolves a bearer token to its account. Expired sessions
// are deleted on sight.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*domain.Account, *domain.Session, error) {
	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		if domainerrors.Is(err, store.ErrSessionNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid session")
		}
		return nil, nil, err
	}

	if session.Expired(time.Now()) {
		if err := s.store.DeleteSession(ctx, token); err != nil && !domainerrors.Is(err, store.ErrSessionNotFound) {
			s.logger.Warn("failed to delete expired session", "error", err)
		}
		return nil, nil, domainerrors.Unauthorized("session expired")
	}

	account, err := s.store.GetAccount(ctx, session.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrAccountNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid session")
		}
		return nil, nil, err
	}
	return account, session, nil
}

// RevokeAll deletes every session belonging to a user.
func (s *AuthService) RevokeAll(ctx context.Context, userID string) (int, error) {
	return s.store.DeleteSessionsForUser(ctx, userID)
}

// DeleteAccount removes the account, its collection profile, and every
// session belonging to it. Reviews are kept; they carry their own author
// display name.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.store.DeleteSessionsForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.collections.DeleteProfile(ctx, userID); err != nil {
		return err
	}
	if err := s.store.DeleteAccount(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted", "user_id", userID)
	return nil
}

func (s *AuthService) createSession(ctx context.Context, userID string) (*domain.Session, error) {
	token, err := id.Generate("sess")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate session token")
	}

	now := time.Now()
	session := &domain.Session{
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
		Token:     token,
		UserID:    userID,
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Fragrance Fan"
	}
	return local
}
