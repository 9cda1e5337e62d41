// Package score defines the sort-key encoding used by the leaderboard cache.
package score

// LevelMultiplier spaces level tiers apart in the global encoding so that
// level always dominates XP in the ordering. XP is clamped below it; see
// Global.
const LevelMultiplier = 1_000_000

// MaxXP is the largest XP value the global encoding can represent without
// bleeding into the level digits.
const MaxXP = LevelMultiplier - 1

// Global encodes a standing into a single descending-sortable number:
// level*1_000_000 + xp. XP above MaxXP is clamped so a runaway XP value can
// never promote a player past a higher level tier.
func Global(level, xp int) int64 {
	if xp < 0 {
		xp = 0
	}
	if xp > MaxXP {
		xp = MaxXP
	}
	return int64(level)*LevelMultiplier + int64(xp)
}

// PerLevel encodes a standing for a per-tier scope. All members of a tier
// scope share the same level, so XP alone orders them.
func PerLevel(xp int) int64 {
	if xp < 0 {
		xp = 0
	}
	return int64(xp)
}
