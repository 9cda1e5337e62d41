// Package cache provides the sorted leaderboard cache: named scopes mapping
// members to scores, ordered score descending, replaced wholesale by the
// refresher and read concurrently by queries.
package cache

import (
	"context"
	"strconv"
)

// GlobalScope names the leaderboard scope spanning all level tiers.
const GlobalScope = "global"

// LevelScope returns the scope name for a level tier.
func LevelScope(orderLevel int) string {
	return "level:" + strconv.Itoa(orderLevel)
}

// Entry is one member/score pair inside a scope.
type Entry struct {
	Member string
	Score  int64
}

// Leaderboard is the read/replace contract for the sorted cache.
//
// Ordering within a scope is score descending, ties broken by member
// ascending so that repeated reads are deterministic.
type Leaderboard interface {
	// Size returns the number of members in scope, 0 if the scope is absent.
	Size(ctx context.Context, scope string) int

	// RangeByRankDesc returns members from rank start through end inclusive
	// (0-based, highest score first). Absent scopes and out-of-bounds ranges
	// yield an empty slice, never an error.
	RangeByRankDesc(ctx context.Context, scope string, start, end int) []Entry

	// Replace atomically discards any existing content for scope and
	// installs entries. Concurrent readers observe either the old scope or
	// the new one, never a partially written state.
	Replace(ctx context.Context, scope string, entries []Entry)
}
