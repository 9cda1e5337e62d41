// Command seed provisions the standings schema and fills it with generated
// players and levels, for local development against Postgres.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/openquest/questboard/internal/adapters/store"
	"github.com/openquest/questboard/internal/seed"
	"github.com/openquest/questboard/pkg/logger"
)

const seedTimeout = 2 * time.Minute

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       TEXT PRIMARY KEY,
	username TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS levels (
	id          TEXT PRIMARY KEY,
	order_level INTEGER NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	title       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS player_standings (
	character_id   TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL UNIQUE REFERENCES users(id),
	character_name TEXT NOT NULL,
	level          INTEGER NOT NULL DEFAULT 1,
	xp             INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_player_standings_level_xp
	ON player_standings (level DESC, xp DESC);
`

func main() {
	databaseURL := flag.String("database-url", os.Getenv("QUESTBOARD_DATABASE_URL"), "Postgres connection URL")
	players := flag.Int("players", 500, "number of standings to generate")
	maxTier := flag.Int("max-tier", 10, "highest level tier to create")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if *databaseURL == "" {
		log.Error(ctx, "database-url is required")
		os.Exit(1)
	}

	pg, err := store.NewPostgres(ctx, *databaseURL)
	if err != nil {
		log.Error(ctx, "failed to connect", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	pool := pg.Pool()
	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Error(ctx, "failed to create schema", logger.Error(err))
		os.Exit(1)
	}

	for _, l := range seed.Levels(*maxTier) {
		_, err := pool.Exec(ctx, `
			INSERT INTO levels (id, order_level, name, title)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (order_level) DO UPDATE SET name = $3, title = $4`,
			l.ID, l.OrderLevel, l.Name, l.Title)
		if err != nil {
			log.Error(ctx, "failed to insert level", logger.Int("tier", l.OrderLevel), logger.Error(err))
			os.Exit(1)
		}
	}

	standings := seed.Standings(*players, *maxTier)
	for _, s := range standings {
		_, err := pool.Exec(ctx, `
			INSERT INTO users (id, username) VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING`,
			s.UserID, s.Username)
		if err != nil {
			log.Error(ctx, "failed to insert user", logger.Error(err))
			os.Exit(1)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO player_standings (character_id, user_id, character_name, level, xp)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (character_id) DO UPDATE SET level = $4, xp = $5`,
			s.CharacterID, s.UserID, s.CharacterName, s.Level, s.XP)
		if err != nil {
			log.Error(ctx, "failed to insert standing", logger.Error(err))
			os.Exit(1)
		}
	}

	log.Info(ctx, "seeding complete",
		logger.Int("players", len(standings)),
		logger.Int("tiers", *maxTier),
	)
}
