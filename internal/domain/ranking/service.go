// Package ranking serves paginated leaderboard queries over the sorted cache,
// hydrating entries with standing and level display data.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/openquest/questboard/internal/adapters/cache"
	"github.com/openquest/questboard/internal/adapters/store"
	"github.com/openquest/questboard/internal/domain/model"
	"github.com/openquest/questboard/pkg/logger"
	"github.com/openquest/questboard/pkg/metrics"
)

// unknownLevelDisplay is shown when a level tier has no LevelInfo. A miss is
// documented behavior, not an error: tiers are not guaranteed contiguous.
const unknownLevelDisplay = "Unknown"

const defaultMaxPageLimit = 1000

// Warmer triggers an on-demand cache rebuild when a query finds an empty
// scope. The query calls it at most once; if the scope is still empty
// afterwards the query returns an empty page rather than looping.
type Warmer interface {
	Refresh(ctx context.Context) error
}

// Service answers ranking queries. It only ever reads the cache; the
// refresher is the sole writer.
type Service struct {
	board     cache.Leaderboard
	standings store.StandingStore
	levels    store.LevelStore
	warmer    Warmer

	maxPageLimit int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMaxPageLimit caps the page size a single query may request.
func WithMaxPageLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxPageLimit = limit
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

// New constructs a ranking query service.
func New(board cache.Leaderboard, standings store.StandingStore, levels store.LevelStore, warmer Warmer, opts ...Option) *Service {
	s := &Service{
		board:        board,
		standings:    standings,
		levels:       levels,
		warmer:       warmer,
		maxPageLimit: defaultMaxPageLimit,
		logger:       logger.Get().Named("ranking"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GlobalPage returns one page of the global leaderboard. callerUserID marks
// the caller's own row via IsMe; empty means anonymous and no row is marked.
func (s *Service) GlobalPage(ctx context.Context, callerUserID string, offset, limit int) (model.Page, error) {
	return s.page(ctx, cache.GlobalScope, callerUserID, offset, limit)
}

// LevelPage returns one page of a level tier's leaderboard. The levelID is a
// storage identifier; it is resolved to the tier's order level first because
// scopes are keyed by tier, not by storage id.
func (s *Service) LevelPage(ctx context.Context, callerUserID, levelID string, offset, limit int) (model.Page, error) {
	level, err := s.levels.LevelByID(ctx, levelID)
	if err != nil {
		if errors.Is(err, store.ErrLevelNotFound) {
			return model.Page{}, ErrLevelNotFound
		}
		return model.Page{}, fmt.Errorf("resolve level %s: %w", levelID, err)
	}
	return s.page(ctx, cache.LevelScope(level.OrderLevel), callerUserID, offset, limit)
}

// page runs the shared query pipeline for one scope.
func (s *Service) page(ctx context.Context, scope, callerUserID string, offset, limit int) (model.Page, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if offset < 0 || limit < 1 {
		return model.Page{}, ErrInvalidPage
	}
	if limit > s.maxPageLimit {
		return model.Page{}, fmt.Errorf("%w: %d > %d", ErrLimitExceeded, limit, s.maxPageLimit)
	}

	total := s.board.Size(ctx, scope)
	if total == 0 {
		// On-demand warm-up, at most once per query call.
		if err := s.warmer.Refresh(ctx); err != nil {
			s.logger.Warn(ctx, "on-demand refresh failed; serving cache as-is",
				logger.String("scope", scope),
				logger.Error(err),
			)
		}
		total = s.board.Size(ctx, scope)
	}

	page := model.Page{
		Content:       []model.RankingResult{},
		TotalElements: total,
		Offset:        offset,
		Limit:         limit,
	}
	if total == 0 {
		return page, nil
	}

	entries := s.board.RangeByRankDesc(ctx, scope, offset, offset+limit-1)
	if len(entries) == 0 {
		return page, nil
	}

	members := make([]string, len(entries))
	for i, e := range entries {
		members[i] = e.Member
	}
	standings, err := s.standings.StandingsByCharacterIDs(ctx, members)
	if err != nil {
		return model.Page{}, fmt.Errorf("hydrate standings: %w", err)
	}
	byCharacter := make(map[string]model.PlayerStanding, len(standings))
	for _, st := range standings {
		byCharacter[st.CharacterID] = st
	}

	levelByOrder, err := s.levelDisplay(ctx, standings)
	if err != nil {
		return model.Page{}, err
	}

	// Reimpose the cache's rank order; the batch fetch promises none.
	// Members that no longer resolve to a standing are skipped from content
	// but still counted in TotalElements (accepted staleness window).
	for i, e := range entries {
		st, ok := byCharacter[e.Member]
		if !ok {
			continue
		}
		result := model.RankingResult{
			Position:      offset + i + 1,
			UserID:        st.UserID,
			Username:      st.Username,
			CharacterName: st.CharacterName,
			Level:         st.Level,
			XP:            st.XP,
			LevelName:     unknownLevelDisplay,
			LevelTitle:    unknownLevelDisplay,
			IsMe:          callerUserID != "" && st.UserID == callerUserID,
		}
		if info, ok := levelByOrder[st.Level]; ok {
			result.LevelName = info.Name
			result.LevelTitle = info.Title
		}
		page.Content = append(page.Content, result)
	}

	return page, nil
}

// MyRanking returns the caller's global position, percentile and display
// data. Requires an authenticated caller with a standing.
func (s *Service) MyRanking(ctx context.Context, callerUserID string) (model.MyRanking, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if callerUserID == "" {
		return model.MyRanking{}, ErrUnauthenticated
	}

	standing, err := s.standings.StandingByUserID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, store.ErrStandingNotFound) {
			return model.MyRanking{}, ErrNoStanding
		}
		return model.MyRanking{}, fmt.Errorf("resolve caller standing: %w", err)
	}

	position, total, err := s.standings.CharacterRank(ctx, standing.CharacterID)
	if err != nil {
		return model.MyRanking{}, fmt.Errorf("resolve caller rank: %w", err)
	}

	my := model.MyRanking{
		Position:      position,
		TotalPlayers:  total,
		Percentile:    percentile(position, total),
		CharacterName: standing.CharacterName,
		Level:         standing.Level,
		XP:            standing.XP,
		LevelName:     unknownLevelDisplay,
		LevelTitle:    unknownLevelDisplay,
	}

	levels, err := s.levels.LevelsByOrder(ctx, []int{standing.Level})
	if err != nil {
		return model.MyRanking{}, fmt.Errorf("resolve caller level: %w", err)
	}
	if len(levels) > 0 {
		my.LevelName = levels[0].Name
		my.LevelTitle = levels[0].Title
	}

	return my, nil
}

// levelDisplay batch-fetches LevelInfo for the distinct levels present in
// the hydrated standings.
func (s *Service) levelDisplay(ctx context.Context, standings []model.PlayerStanding) (map[int]model.LevelInfo, error) {
	seen := make(map[int]struct{}, len(standings))
	orders := make([]int, 0, len(standings))
	for _, st := range standings {
		if _, ok := seen[st.Level]; ok {
			continue
		}
		seen[st.Level] = struct{}{}
		orders = append(orders, st.Level)
	}

	levels, err := s.levels.LevelsByOrder(ctx, orders)
	if err != nil {
		return nil, fmt.Errorf("hydrate levels: %w", err)
	}

	byOrder := make(map[int]model.LevelInfo, len(levels))
	for _, l := range levels {
		byOrder[l.OrderLevel] = l
	}
	return byOrder, nil
}

// percentile maps a 1-based position to a top-percentage, rounded to two
// decimals. Rank 1 of N is 100.0; rank N of N is 100/N, never 0.
func percentile(position, total int) float64 {
	if total < 1 {
		return 0
	}
	pct := (float64(total-position+1) / float64(total)) * 100
	return math.Round(pct*100) / 100
}
