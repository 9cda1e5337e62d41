package service

import (
	"time"

	"github.com/openquest/questboard/internal/adapters/store"
	"github.com/openquest/questboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatabaseURL selects the Postgres standings store. Empty keeps the
// seeded in-memory store.
func WithDatabaseURL(url string) Option {
	return func(s *Service) {
		s.databaseURL = url
	}
}

// WithRefreshInterval sets the scheduled cache rebuild cadence.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// WithRefreshTimeout bounds the bulk standings read per rebuild.
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.refreshTimeout = timeout
		}
	}
}

// WithMaxPageLimit caps the page size of ranking queries.
func WithMaxPageLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxPageLimit = limit
		}
	}
}

// WithMaxLevelTier sets the highest level tier that gets its own scope.
func WithMaxLevelTier(tier int) Option {
	return func(s *Service) {
		if tier > 0 {
			s.maxLevelTier = tier
		}
	}
}

// WithDemoPlayers sets how many standings the in-memory store is seeded
// with when no database is configured.
func WithDemoPlayers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.demoPlayers = n
		}
	}
}

// WithStores injects standings and level stores directly, bypassing store
// selection. Used by tests.
func WithStores(standings store.StandingStore, levels store.LevelStore) Option {
	return func(s *Service) {
		if standings != nil && levels != nil {
			s.standings = standings
			s.levels = levels
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
