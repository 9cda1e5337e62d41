package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openquest/questboard/pkg/metrics"
)

// MemStore is the in-memory Leaderboard implementation.
//
// Each scope is an immutable sorted slice. Replace builds and sorts the new
// slice outside the lock, then swaps the scope pointer under a brief write
// lock. This is the double-buffer analog of a write-to-temp-then-rename
// cache update: readers holding the old slice keep a consistent view, and a
// reader arriving after the swap sees the new one in full.
type MemStore struct {
	mu     sync.RWMutex
	scopes map[string]*scopeSet
}

// scopeSet holds one scope's entries in rank order (score desc, member asc).
// Never mutated after construction.
type scopeSet struct {
	entries []Entry
	builtAt time.Time
}

// NewMemStore constructs an empty cache.
func NewMemStore() *MemStore {
	return &MemStore{
		scopes: make(map[string]*scopeSet),
	}
}

// Size implements Leaderboard.Size.
func (s *MemStore) Size(ctx context.Context, scope string) int {
	s.mu.RLock()
	set := s.scopes[scope]
	s.mu.RUnlock()

	if set == nil {
		return 0
	}
	return len(set.entries)
}

// RangeByRankDesc implements Leaderboard.RangeByRankDesc.
func (s *MemStore) RangeByRankDesc(ctx context.Context, scope string, start, end int) []Entry {
	startTime := time.Now()
	defer func() {
		metrics.RecordCacheQueryLatency(float64(time.Since(startTime).Milliseconds()))
	}()

	s.mu.RLock()
	set := s.scopes[scope]
	s.mu.RUnlock()

	if set == nil || start < 0 || end < start || start >= len(set.entries) {
		return nil
	}
	if end >= len(set.entries) {
		end = len(set.entries) - 1
	}

	out := make([]Entry, end-start+1)
	copy(out, set.entries[start:end+1])
	return out
}

// Replace implements Leaderboard.Replace.
func (s *MemStore) Replace(ctx context.Context, scope string, entries []Entry) {
	startTime := time.Now()

	// Build the replacement fully before touching shared state.
	set := &scopeSet{
		entries: make([]Entry, len(entries)),
		builtAt: time.Now(),
	}
	copy(set.entries, entries)
	sort.Slice(set.entries, func(i, j int) bool {
		if set.entries[i].Score != set.entries[j].Score {
			return set.entries[i].Score > set.entries[j].Score
		}
		return set.entries[i].Member < set.entries[j].Member
	})

	s.mu.Lock()
	s.scopes[scope] = set
	s.mu.Unlock()

	metrics.UpdateCacheScopeSize(scope, len(set.entries))
	metrics.RecordCacheReplaceLatency(float64(time.Since(startTime).Milliseconds()))
}

// Scopes returns the names of all populated scopes, for stats reporting.
func (s *MemStore) Scopes(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.scopes))
	for name := range s.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
