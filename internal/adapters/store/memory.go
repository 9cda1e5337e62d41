package store

import (
	"context"
	"sort"
	"sync"

	"github.com/openquest/questboard/internal/domain/model"
)

// Memory implements StandingStore and LevelStore with mutex-guarded maps.
// It backs tests and serves as the demo backend when no database URL is
// configured.
type Memory struct {
	mu        sync.RWMutex
	standings map[string]model.PlayerStanding // keyed by character id
	byUser    map[string]string               // user id -> character id
	levels    map[string]model.LevelInfo      // keyed by storage id
	byOrder   map[int]model.LevelInfo
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		standings: make(map[string]model.PlayerStanding),
		byUser:    make(map[string]string),
		levels:    make(map[string]model.LevelInfo),
		byOrder:   make(map[int]model.LevelInfo),
	}
}

// PutStanding inserts or replaces a standing. One standing per user: a second
// standing for the same user replaces the first.
func (m *Memory) PutStanding(s model.PlayerStanding) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.byUser[s.UserID]; ok && prev != s.CharacterID {
		delete(m.standings, prev)
	}
	m.standings[s.CharacterID] = s
	m.byUser[s.UserID] = s.CharacterID
}

// PutLevel inserts or replaces a level.
func (m *Memory) PutLevel(l model.LevelInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.levels[l.ID] = l
	m.byOrder[l.OrderLevel] = l
}

// AllStandings implements StandingStore.AllStandings.
func (m *Memory) AllStandings(ctx context.Context) ([]model.PlayerStanding, error) {
	m.mu.RLock()
	out := make([]model.PlayerStanding, 0, len(m.standings))
	for _, s := range m.standings {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return outranks(out[i], out[j])
	})
	return out, nil
}

// StandingsByCharacterIDs implements StandingStore.StandingsByCharacterIDs.
func (m *Memory) StandingsByCharacterIDs(ctx context.Context, ids []string) ([]model.PlayerStanding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.PlayerStanding, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.standings[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// StandingByUserID implements StandingStore.StandingByUserID.
func (m *Memory) StandingByUserID(ctx context.Context, userID string) (model.PlayerStanding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUser[userID]
	if !ok {
		return model.PlayerStanding{}, ErrStandingNotFound
	}
	return m.standings[id], nil
}

// CountStandings implements StandingStore.CountStandings.
func (m *Memory) CountStandings(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.standings), nil
}

// CharacterRank implements StandingStore.CharacterRank.
func (m *Memory) CharacterRank(ctx context.Context, characterID string) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	me, ok := m.standings[characterID]
	if !ok {
		return 0, 0, ErrStandingNotFound
	}

	position := 1
	for _, s := range m.standings {
		if s.CharacterID == characterID {
			continue
		}
		if outranks(s, me) {
			position++
		}
	}
	return position, len(m.standings), nil
}

// LevelsByOrder implements LevelStore.LevelsByOrder.
func (m *Memory) LevelsByOrder(ctx context.Context, orders []int) ([]model.LevelInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.LevelInfo, 0, len(orders))
	for _, order := range orders {
		if l, ok := m.byOrder[order]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// LevelByID implements LevelStore.LevelByID.
func (m *Memory) LevelByID(ctx context.Context, id string) (model.LevelInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.levels[id]
	if !ok {
		return model.LevelInfo{}, ErrLevelNotFound
	}
	return l, nil
}

// outranks reports whether a ranks strictly ahead of b: level desc, xp desc,
// character id asc for determinism.
func outranks(a, b model.PlayerStanding) bool {
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	if a.XP != b.XP {
		return a.XP > b.XP
	}
	return a.CharacterID < b.CharacterID
}
