package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session is stored (not logged in)
	ErrSessionNotFound = errors.New("session not found")
)
