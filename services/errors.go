package services

import "errors"

// Errors shared between services and the HTTP error mapping.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentExists   = errors.New("tournament already exists")
	// ErrVersionConflict surfaces a lost optimistic-concurrency race; the
	// caller should reload the snapshot and retry.
	ErrVersionConflict = errors.New("tournament was modified concurrently")
)
