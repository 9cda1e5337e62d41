package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStandingNotFound = errors.New("standing not found")
	ErrLevelNotFound    = errors.New("level not found")
)
