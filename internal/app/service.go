// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openquest/questboard/internal/adapters/cache"
	"github.com/openquest/questboard/internal/adapters/store"
	"github.com/openquest/questboard/internal/domain/model"
	"github.com/openquest/questboard/internal/domain/ranking"
	"github.com/openquest/questboard/internal/domain/refresh"
	"github.com/openquest/questboard/internal/seed"
	"github.com/openquest/questboard/pkg/logger"
	"github.com/openquest/questboard/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultRefreshInterval = 5 * time.Minute
	defaultRefreshTimeout  = 30 * time.Second
	defaultMaxPageLimit    = 1000
	defaultMaxLevelTier    = 10
	defaultDemoPlayers     = 250
	shutdownTimeout        = 10 * time.Second
)

// Service wires the cache, stores, refresher and query service together and
// implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	board     *cache.MemStore
	standings store.StandingStore
	levels    store.LevelStore
	postgres  *store.Postgres
	refresher *refresh.Refresher
	queries   *ranking.Service

	// Configuration
	databaseURL     string
	refreshInterval time.Duration
	refreshTimeout  time.Duration
	maxPageLimit    int
	maxLevelTier    int
	demoPlayers     int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		refreshInterval: defaultRefreshInterval,
		refreshTimeout:  defaultRefreshTimeout,
		maxPageLimit:    defaultMaxPageLimit,
		maxLevelTier:    defaultMaxLevelTier,
		demoPlayers:     defaultDemoPlayers,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the components and kicks off the scheduled refresher.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting ranking service...")

	if err := s.initStores(ctx); err != nil {
		return err
	}

	s.board = cache.NewMemStore()
	s.refresher = refresh.New(s.standings, s.board,
		refresh.WithInterval(s.refreshInterval),
		refresh.WithFetchTimeout(s.refreshTimeout),
		refresh.WithMaxLevelTier(s.maxLevelTier),
	)
	s.queries = ranking.New(s.board, s.standings, s.levels, s.refresher,
		ranking.WithMaxPageLimit(s.maxPageLimit),
	)

	// Warm the cache once up front; queries would trigger it anyway but a
	// cold start should not penalize the first caller.
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial refresh failed; cache starts empty", logger.Error(err))
	}

	go s.refresher.Run(ctx)

	s.started = true
	s.logger.Info(ctx, "ranking service started",
		logger.Int("maxPageLimit", s.maxPageLimit),
		logger.Int("maxLevelTier", s.maxLevelTier),
		logger.Any("refreshInterval", s.refreshInterval),
	)
	return nil
}

// initStores selects the Postgres store when a database URL is configured
// and the seeded in-memory store otherwise.
func (s *Service) initStores(ctx context.Context) error {
	if s.standings != nil && s.levels != nil {
		// Stores injected via options; nothing to build.
		return nil
	}

	if s.databaseURL != "" {
		pg, err := store.NewPostgres(ctx, s.databaseURL)
		if err != nil {
			return fmt.Errorf("connect standings database: %w", err)
		}
		s.postgres = pg
		s.standings = pg
		s.levels = pg
		s.logger.Info(ctx, "using postgres standings store")
		return nil
	}

	mem := store.NewMemory()
	for _, l := range seed.Levels(s.maxLevelTier) {
		mem.PutLevel(l)
	}
	for _, st := range seed.Standings(s.demoPlayers, s.maxLevelTier) {
		mem.PutStanding(st)
	}
	s.standings = mem
	s.levels = mem
	s.logger.Info(ctx, "using seeded in-memory standings store",
		logger.Int("players", s.demoPlayers),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping ranking service...")

	if s.refresher != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		if err := s.refresher.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "refresher shutdown timed out", logger.Error(err))
		}
		cancel()
	}
	if s.postgres != nil {
		s.postgres.Close()
	}

	s.started = false
	s.logger.Info(ctx, "ranking service stopped")
}

// GlobalPage returns one page of the global leaderboard.
func (s *Service) GlobalPage(ctx context.Context, callerUserID string, offset, limit int) (model.Page, error) {
	return s.queries.GlobalPage(ctx, callerUserID, offset, limit)
}

// LevelPage returns one page of a level tier's leaderboard.
func (s *Service) LevelPage(ctx context.Context, callerUserID, levelID string, offset, limit int) (model.Page, error) {
	return s.queries.LevelPage(ctx, callerUserID, levelID, offset, limit)
}

// MyRanking returns the caller's own position and percentile.
func (s *Service) MyRanking(ctx context.Context, callerUserID string) (model.MyRanking, error) {
	return s.queries.MyRanking(ctx, callerUserID)
}

// Refresh forces a cache rebuild, mainly for operational tooling.
func (s *Service) Refresh(ctx context.Context) error {
	return s.refresher.Refresh(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"maxPageLimit": s.maxPageLimit,
		"maxLevelTier": s.maxLevelTier,
	}

	if s.started {
		totalPlayers := s.board.Size(ctx, cache.GlobalScope)
		stats["totalPlayers"] = totalPlayers
		stats["scopes"] = s.board.Scopes(ctx)
		metrics.UpdateTotalPlayers(totalPlayers)
	}

	return stats
}
