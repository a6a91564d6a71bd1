package store

import "errors"

// Sentinel errors returned by store lookups.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrSessionNotFound = errors.New("session not found")
)
