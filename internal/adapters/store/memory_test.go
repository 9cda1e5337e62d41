package store

import (
	"context"
	"errors"
	"testing"

	"github.com/openquest/questboard/internal/domain/model"
)

func standing(characterID, userID string, level, xp int) model.PlayerStanding {
	return model.PlayerStanding{
		CharacterID:   characterID,
		UserID:        userID,
		CharacterName: "char-" + characterID,
		Username:      "user-" + userID,
		Level:         level,
		XP:            xp,
	}
}

func TestMemory_AllStandingsOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutStanding(standing("c1", "u1", 3, 10))
	m.PutStanding(standing("c2", "u2", 3, 999))
	m.PutStanding(standing("c3", "u3", 5, 1))

	all, err := m.AllStandings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"c3", "c2", "c1"}
	for i, id := range want {
		if all[i].CharacterID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, all[i].CharacterID)
		}
	}
}

func TestMemory_OneStandingPerUser(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutStanding(standing("c1", "u1", 1, 10))
	m.PutStanding(standing("c2", "u1", 2, 20))

	count, err := m.CountStandings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 standing after user replacement, got %d", count)
	}

	s, err := m.StandingByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CharacterID != "c2" {
		t.Errorf("expected replacement standing c2, got %s", s.CharacterID)
	}
}

func TestMemory_StandingByUserID_NotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.StandingByUserID(ctx, "missing")
	if !errors.Is(err, ErrStandingNotFound) {
		t.Errorf("expected ErrStandingNotFound, got %v", err)
	}
}

func TestMemory_StandingsByCharacterIDs_SkipsUnknown(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutStanding(standing("c1", "u1", 1, 10))

	got, err := m.StandingsByCharacterIDs(ctx, []string{"c1", "ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].CharacterID != "c1" {
		t.Errorf("expected only c1, got %v", got)
	}
}

func TestMemory_CharacterRank(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutStanding(standing("c1", "u1", 3, 10))
	m.PutStanding(standing("c2", "u2", 3, 999))
	m.PutStanding(standing("c3", "u3", 5, 1))

	cases := []struct {
		characterID string
		wantPos     int
	}{
		{"c3", 1},
		{"c2", 2},
		{"c1", 3},
	}
	for _, tc := range cases {
		pos, total, err := m.CharacterRank(ctx, tc.characterID)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tc.characterID, err)
		}
		if pos != tc.wantPos {
			t.Errorf("%s: expected position %d, got %d", tc.characterID, tc.wantPos, pos)
		}
		if total != 3 {
			t.Errorf("%s: expected total 3, got %d", tc.characterID, total)
		}
	}

	if _, _, err := m.CharacterRank(ctx, "ghost"); !errors.Is(err, ErrStandingNotFound) {
		t.Errorf("expected ErrStandingNotFound for unknown character, got %v", err)
	}
}

func TestMemory_CharacterRank_TieBreak(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	// Identical (level, xp); character id ascending breaks the tie.
	m.PutStanding(standing("a", "u1", 2, 100))
	m.PutStanding(standing("b", "u2", 2, 100))

	posA, _, err := m.CharacterRank(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	posB, _, err := m.CharacterRank(ctx, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posA != 1 || posB != 2 {
		t.Errorf("expected deterministic tie-break a=1 b=2, got a=%d b=%d", posA, posB)
	}
}

func TestMemory_Levels(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.PutLevel(model.LevelInfo{ID: "lv-3", OrderLevel: 3, Name: "Adept", Title: "The Focused"})

	levels, err := m.LevelsByOrder(ctx, []int{3, 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(levels) != 1 || levels[0].Name != "Adept" {
		t.Errorf("expected only Adept, got %v", levels)
	}

	if _, err := m.LevelByID(ctx, "nope"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("expected ErrLevelNotFound, got %v", err)
	}

	l, err := m.LevelByID(ctx, "lv-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.OrderLevel != 3 {
		t.Errorf("expected order level 3, got %d", l.OrderLevel)
	}
}
