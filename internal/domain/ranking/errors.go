package ranking

import "errors"

// Sentinel kinds for ranking query errors.
var (
	ErrLimitExceeded   = errors.New("page limit exceeded")
	ErrInvalidPage     = errors.New("invalid page request")
	ErrLevelNotFound   = errors.New("level not found")
	ErrNoStanding      = errors.New("caller has no standing")
	ErrUnauthenticated = errors.New("caller identity required")
)
