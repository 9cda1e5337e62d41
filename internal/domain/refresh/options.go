package refresh

import (
	"time"

	"github.com/openquest/questboard/pkg/logger"
)

// Option applies a configuration option to the Refresher.
type Option func(*Refresher)

// WithInterval sets the scheduled refresh interval.
func WithInterval(interval time.Duration) Option {
	return func(r *Refresher) {
		if interval > 0 {
			r.interval = interval
		}
	}
}

// WithFetchTimeout bounds the bulk standings read during a refresh.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(r *Refresher) {
		if timeout > 0 {
			r.fetchTimeout = timeout
		}
	}
}

// WithMaxLevelTier sets the highest level tier that gets its own scope.
func WithMaxLevelTier(tier int) Option {
	return func(r *Refresher) {
		if tier > 0 {
			r.maxLevelTier = tier
		}
	}
}

// WithLogger sets a custom logger for the refresher.
func WithLogger(l logger.Logger) Option {
	return func(r *Refresher) {
		if l != nil {
			r.logger = l
		}
	}
}
