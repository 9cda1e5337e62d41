// Package refresh rebuilds the sorted leaderboard cache from the standings
// store, on a fixed schedule and on demand.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/openquest/questboard/internal/adapters/cache"
	"github.com/openquest/questboard/internal/adapters/store"
	"github.com/openquest/questboard/internal/domain/score"
	"github.com/openquest/questboard/pkg/logger"
	"github.com/openquest/questboard/pkg/metrics"
)

// Default refresher configuration constants.
const (
	defaultInterval     = 5 * time.Minute
	defaultFetchTimeout = 30 * time.Second
	defaultMaxLevelTier = 10
)

// Refresher rebuilds every cache scope from the standings store. Rebuilds
// are idempotent and each scope is installed with an atomic swap, so a
// scheduled tick racing an on-demand refresh is safe: the last writer wins
// and readers never observe a torn scope.
type Refresher struct {
	standings store.StandingStore
	board     cache.Leaderboard

	interval     time.Duration
	fetchTimeout time.Duration
	maxLevelTier int

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New constructs a Refresher with configuration options.
func New(standings store.StandingStore, board cache.Leaderboard, opts ...Option) *Refresher {
	r := &Refresher{
		standings:    standings,
		board:        board,
		interval:     defaultInterval,
		fetchTimeout: defaultFetchTimeout,
		maxLevelTier: defaultMaxLevelTier,
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		logger:       logger.Get().Named("refresher"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run drives scheduled refreshes until ctx is canceled or Shutdown is
// called. Failures are logged and swallowed: a stale or empty cache is
// preferred over a crashed scheduler tick, and the next tick tries again.
func (r *Refresher) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Error(ctx, "scheduled refresh failed", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the scheduled loop and waits for it to exit.
func (r *Refresher) Shutdown(ctx context.Context) error {
	select {
	case <-r.shutdown:
		// Already shut down
	default:
		close(r.shutdown)
	}

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("refresher shutdown: %w", ctx.Err())
	}
}

// Refresh rebuilds the global scope and one scope per level tier from a
// single bulk read of the standings store. Callers treat an error as
// "cache left as it was"; nothing is ever partially installed.
func (r *Refresher) Refresh(ctx context.Context) error {
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	standings, err := r.standings.AllStandings(fetchCtx)
	if err != nil {
		metrics.RecordRefreshError()
		metrics.RecordErrorByComponent("refresher", "store_unavailable")
		return fmt.Errorf("fetch standings: %w", err)
	}

	global := make([]cache.Entry, 0, len(standings))
	perLevel := make(map[int][]cache.Entry, r.maxLevelTier)
	for _, s := range standings {
		global = append(global, cache.Entry{
			Member: s.CharacterID,
			Score:  score.Global(s.Level, s.XP),
		})
		if s.Level >= 1 && s.Level <= r.maxLevelTier {
			perLevel[s.Level] = append(perLevel[s.Level], cache.Entry{
				Member: s.CharacterID,
				Score:  score.PerLevel(s.XP),
			})
		}
	}

	r.board.Replace(ctx, cache.GlobalScope, global)
	for tier := 1; tier <= r.maxLevelTier; tier++ {
		r.board.Replace(ctx, cache.LevelScope(tier), perLevel[tier])
	}

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordRefreshDuration(ms)
	metrics.UpdateRefreshLastUnix(float64(time.Now().Unix()))
	metrics.IncrementRefreshCount()

	r.logger.Debug(ctx, "leaderboard cache refreshed",
		logger.Int("standings", len(standings)),
		logger.Int("tiers", r.maxLevelTier),
		logger.Float64("duration_ms", ms),
	)
	return nil
}
