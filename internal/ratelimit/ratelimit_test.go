package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter_AllowsWithinBurst(t *testing.T) {
	limiter := New(1, 3)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("1.2.3.4"), "request %d should pass", i)
	}
	assert.False(t, limiter.Allow("1.2.3.4"))
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := New(1, 1)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.False(t, limiter.Allow("1.2.3.4"))

	// A different client is unaffected.
	assert.True(t, limiter.Allow("5.6.7.8"))
}
