package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAccountID_Deterministic(t *testing.T) {
	a := DeriveAccountID("nose@example.com")
	b := DeriveAccountID("nose@example.com")

	assert.Equal(t, a, b)
	assert.True(t, len(a) > len("user-"))
}

func TestDeriveAccountID_NormalizesEmail(t *testing.T) {
	assert.Equal(t,
		DeriveAccountID("nose@example.com"),
		DeriveAccountID("  Nose@Example.COM  "),
	)
}

func TestDeriveAccountID_DistinctEmails(t *testing.T) {
	assert.NotEqual(t,
		DeriveAccountID("a@example.com"),
		DeriveAccountID("b@example.com"),
	)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Hour)))
}
