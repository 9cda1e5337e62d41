package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openquest/questboard/internal/domain/model"
)

const connectTimeout = 5 * time.Second

// Postgres implements StandingStore and LevelStore over pgx.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a connection pool against databaseURL and verifies it
// with a ping.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Pool exposes the underlying pool for migrations and seeding.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

const standingColumns = `
	ps.character_id, ps.user_id, ps.character_name, u.username, ps.level, ps.xp`

// AllStandings implements StandingStore.AllStandings.
func (p *Postgres) AllStandings(ctx context.Context) ([]model.PlayerStanding, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT`+standingColumns+`
		FROM player_standings ps
		JOIN users u ON u.id = ps.user_id
		ORDER BY ps.level DESC, ps.xp DESC, ps.character_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()
	return scanStandings(rows)
}

// StandingsByCharacterIDs implements StandingStore.StandingsByCharacterIDs.
func (p *Postgres) StandingsByCharacterIDs(ctx context.Context, ids []string) ([]model.PlayerStanding, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := p.pool.Query(ctx, `
		SELECT`+standingColumns+`
		FROM player_standings ps
		JOIN users u ON u.id = ps.user_id
		WHERE ps.character_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query standings by ids: %w", err)
	}
	defer rows.Close()
	return scanStandings(rows)
}

// StandingByUserID implements StandingStore.StandingByUserID.
func (p *Postgres) StandingByUserID(ctx context.Context, userID string) (model.PlayerStanding, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT`+standingColumns+`
		FROM player_standings ps
		JOIN users u ON u.id = ps.user_id
		WHERE ps.user_id = $1`, userID)

	var s model.PlayerStanding
	err := row.Scan(&s.CharacterID, &s.UserID, &s.CharacterName, &s.Username, &s.Level, &s.XP)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PlayerStanding{}, ErrStandingNotFound
	}
	if err != nil {
		return model.PlayerStanding{}, fmt.Errorf("query standing by user: %w", err)
	}
	return s, nil
}

// CountStandings implements StandingStore.CountStandings.
func (p *Postgres) CountStandings(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM player_standings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count standings: %w", err)
	}
	return n, nil
}

// CharacterRank implements StandingStore.CharacterRank. Position is computed
// store-side as one plus the count of strictly outranking standings.
func (p *Postgres) CharacterRank(ctx context.Context, characterID string) (int, int, error) {
	row := p.pool.QueryRow(ctx, `
		WITH me AS (
			SELECT character_id, level, xp
			FROM player_standings
			WHERE character_id = $1
		)
		SELECT
			(SELECT COUNT(*) FROM player_standings ps, me
			 WHERE ps.level > me.level
			    OR (ps.level = me.level AND ps.xp > me.xp)
			    OR (ps.level = me.level AND ps.xp = me.xp AND ps.character_id < me.character_id)) + 1,
			(SELECT COUNT(*) FROM player_standings),
			(SELECT COUNT(*) FROM me)`, characterID)

	var position, total, found int
	if err := row.Scan(&position, &total, &found); err != nil {
		return 0, 0, fmt.Errorf("query character rank: %w", err)
	}
	if found == 0 {
		return 0, 0, ErrStandingNotFound
	}
	return position, total, nil
}

// LevelsByOrder implements LevelStore.LevelsByOrder.
func (p *Postgres) LevelsByOrder(ctx context.Context, orders []int) ([]model.LevelInfo, error) {
	if len(orders) == 0 {
		return nil, nil
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id, order_level, name, title
		FROM levels
		WHERE order_level = ANY($1)`, orders)
	if err != nil {
		return nil, fmt.Errorf("query levels: %w", err)
	}
	defer rows.Close()

	var out []model.LevelInfo
	for rows.Next() {
		var l model.LevelInfo
		if err := rows.Scan(&l.ID, &l.OrderLevel, &l.Name, &l.Title); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate levels: %w", err)
	}
	return out, nil
}

// LevelByID implements LevelStore.LevelByID.
func (p *Postgres) LevelByID(ctx context.Context, id string) (model.LevelInfo, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, order_level, name, title
		FROM levels
		WHERE id = $1`, id)

	var l model.LevelInfo
	err := row.Scan(&l.ID, &l.OrderLevel, &l.Name, &l.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LevelInfo{}, ErrLevelNotFound
	}
	if err != nil {
		return model.LevelInfo{}, fmt.Errorf("query level by id: %w", err)
	}
	return l, nil
}

func scanStandings(rows pgx.Rows) ([]model.PlayerStanding, error) {
	var out []model.PlayerStanding
	for rows.Next() {
		var s model.PlayerStanding
		if err := rows.Scan(&s.CharacterID, &s.UserID, &s.CharacterName, &s.Username, &s.Level, &s.XP); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standings: %w", err)
	}
	return out, nil
}
