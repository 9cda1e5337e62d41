// Package store defines the standings and level lookup contracts backing the
// ranking core, plus their Postgres and in-memory implementations.
package store

import (
	"context"

	"github.com/openquest/questboard/internal/domain/model"
)

// StandingStore reads player standings from the source of truth. The ranking
// core only ever reads; progression writes happen elsewhere in the platform.
type StandingStore interface {
	// AllStandings returns every standing ordered by level desc, xp desc.
	// This is the refresher's bulk read; it is the one place the full player
	// set is materialized.
	AllStandings(ctx context.Context) ([]model.PlayerStanding, error)

	// StandingsByCharacterIDs returns the standings for the given character
	// ids in no particular order. Unknown ids are skipped.
	StandingsByCharacterIDs(ctx context.Context, ids []string) ([]model.PlayerStanding, error)

	// StandingByUserID returns the standing owned by a user.
	// Returns ErrStandingNotFound if the user has none.
	StandingByUserID(ctx context.Context, userID string) (model.PlayerStanding, error)

	// CountStandings returns the total number of standings.
	CountStandings(ctx context.Context) (int, error)

	// CharacterRank returns a character's 1-based global position and the
	// total player count. Position is one plus the number of standings that
	// strictly outrank it, ordered level desc, xp desc, character id asc.
	CharacterRank(ctx context.Context, characterID string) (position, total int, err error)
}

// LevelStore resolves level tiers to display metadata.
type LevelStore interface {
	// LevelsByOrder returns LevelInfo for the given order levels. Missing
	// tiers are simply absent from the result.
	LevelsByOrder(ctx context.Context, orders []int) ([]model.LevelInfo, error)

	// LevelByID resolves a level by its storage identifier.
	// Returns ErrLevelNotFound if no such level exists.
	LevelByID(ctx context.Context, id string) (model.LevelInfo, error)
}
