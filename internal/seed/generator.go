// Package seed generates realistic standings and level data for demos, tests
// and the seeding CLI.
package seed

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/openquest/questboard/internal/domain/model"
	"github.com/openquest/questboard/internal/domain/score"
)

// Level display names by tier, cycled past the end of the slice.
var levelNames = []string{
	"Novice", "Apprentice", "Adept", "Journeyman", "Expert",
	"Veteran", "Master", "Grandmaster", "Legend", "Mythic",
}

var levelTitles = []string{
	"The Curious", "The Persistent", "The Focused", "The Skilled", "The Proven",
	"The Seasoned", "The Accomplished", "The Renowned", "The Celebrated", "The Immortal",
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// Levels builds LevelInfo rows for tiers 1..maxTier.
func Levels(maxTier int) []model.LevelInfo {
	levels := make([]model.LevelInfo, 0, maxTier)
	for tier := 1; tier <= maxTier; tier++ {
		levels = append(levels, model.LevelInfo{
			ID:         uuid.New().String(),
			OrderLevel: tier,
			Name:       levelNames[(tier-1)%len(levelNames)],
			Title:      levelTitles[(tier-1)%len(levelTitles)],
		})
	}
	return levels
}

// Standings builds n standings with unique users and characters, levels
// spread across 1..maxTier and XP below the encoding ceiling.
func Standings(n, maxTier int) []model.PlayerStanding {
	standings := make([]model.PlayerStanding, 0, n)
	for i := 0; i < n; i++ {
		standings = append(standings, model.PlayerStanding{
			CharacterID:   uuid.New().String(),
			UserID:        uuid.New().String(),
			CharacterName: fmt.Sprintf("character-%04d", i+1),
			Username:      fmt.Sprintf("player-%04d", i+1),
			Level:         1 + randomInt(maxTier),
			XP:            randomInt(score.MaxXP),
		})
	}
	return standings
}
