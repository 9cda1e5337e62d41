package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestMemStore_EmptyScope(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if size := s.Size(ctx, GlobalScope); size != 0 {
		t.Errorf("expected size 0 for absent scope, got %d", size)
	}
	if entries := s.RangeByRankDesc(ctx, GlobalScope, 0, 9); len(entries) != 0 {
		t.Errorf("expected empty range for absent scope, got %d entries", len(entries))
	}
}

func TestMemStore_ReplaceAndOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	s.Replace(ctx, GlobalScope, []Entry{
		{Member: "c1", Score: 3_000_010},
		{Member: "c3", Score: 5_000_001},
		{Member: "c2", Score: 3_000_999},
	})

	if size := s.Size(ctx, GlobalScope); size != 3 {
		t.Fatalf("expected size 3, got %d", size)
	}

	entries := s.RangeByRankDesc(ctx, GlobalScope, 0, 2)
	want := []string{"c3", "c2", "c1"}
	for i, member := range want {
		if entries[i].Member != member {
			t.Errorf("rank %d: expected %s, got %s", i, member, entries[i].Member)
		}
	}

	// Descending order within the range
	for i := 0; i < len(entries)-1; i++ {
		if entries[i].Score < entries[i+1].Score {
			t.Errorf("entries not in descending order: %d < %d", entries[i].Score, entries[i+1].Score)
		}
	}
}

func TestMemStore_TieBreakByMember(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	s.Replace(ctx, GlobalScope, []Entry{
		{Member: "b", Score: 100},
		{Member: "a", Score: 100},
		{Member: "c", Score: 100},
	})

	entries := s.RangeByRankDesc(ctx, GlobalScope, 0, 2)
	want := []string{"a", "b", "c"}
	for i, member := range want {
		if entries[i].Member != member {
			t.Errorf("rank %d: expected %s, got %s", i, member, entries[i].Member)
		}
	}
}

func TestMemStore_RangeBounds(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	entries := make([]Entry, 10)
	for i := range entries {
		entries[i] = Entry{Member: fmt.Sprintf("c%02d", i), Score: int64(100 - i)}
	}
	s.Replace(ctx, GlobalScope, entries)

	cases := []struct {
		name       string
		start, end int
		wantLen    int
	}{
		{"full range", 0, 9, 10},
		{"first page", 0, 4, 5},
		{"second page", 5, 9, 5},
		{"end clamped", 8, 100, 2},
		{"start past end", 10, 20, 0},
		{"negative start", -1, 5, 0},
		{"inverted range", 5, 2, 0},
	}
	for _, tc := range cases {
		got := s.RangeByRankDesc(ctx, GlobalScope, tc.start, tc.end)
		if len(got) != tc.wantLen {
			t.Errorf("%s: expected %d entries, got %d", tc.name, tc.wantLen, len(got))
		}
	}
}

func TestMemStore_ReplaceDiscardsOldContent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	s.Replace(ctx, GlobalScope, []Entry{
		{Member: "old1", Score: 10},
		{Member: "old2", Score: 20},
	})
	s.Replace(ctx, GlobalScope, []Entry{
		{Member: "new1", Score: 5},
	})

	if size := s.Size(ctx, GlobalScope); size != 1 {
		t.Fatalf("expected size 1 after replace, got %d", size)
	}
	entries := s.RangeByRankDesc(ctx, GlobalScope, 0, 10)
	if len(entries) != 1 || entries[0].Member != "new1" {
		t.Errorf("expected only new1 after replace, got %v", entries)
	}
}

func TestMemStore_ReplaceWithEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	s.Replace(ctx, GlobalScope, []Entry{{Member: "c1", Score: 1}})
	s.Replace(ctx, GlobalScope, nil)

	if size := s.Size(ctx, GlobalScope); size != 0 {
		t.Errorf("expected size 0 after empty replace, got %d", size)
	}
	if entries := s.RangeByRankDesc(ctx, GlobalScope, 0, 9); len(entries) != 0 {
		t.Errorf("expected no entries after empty replace, got %d", len(entries))
	}
}

func TestMemStore_ScopesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	s.Replace(ctx, GlobalScope, []Entry{{Member: "c1", Score: 3_000_010}})
	s.Replace(ctx, LevelScope(3), []Entry{{Member: "c1", Score: 10}})

	if got := s.RangeByRankDesc(ctx, GlobalScope, 0, 0)[0].Score; got != 3_000_010 {
		t.Errorf("global scope score: expected 3000010, got %d", got)
	}
	if got := s.RangeByRankDesc(ctx, LevelScope(3), 0, 0)[0].Score; got != 10 {
		t.Errorf("level scope score: expected 10, got %d", got)
	}
}

func TestMemStore_ConcurrentReadersDuringReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	build := func(gen int) []Entry {
		entries := make([]Entry, 50)
		for i := range entries {
			entries[i] = Entry{Member: fmt.Sprintf("g%d-c%02d", gen, i), Score: int64(1000 - i)}
		}
		return entries
	}
	s.Replace(ctx, GlobalScope, build(0))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Writers swap in new generations; readers must always see a complete,
	// correctly ordered scope of exactly one generation.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for gen := 1; gen <= 100; gen++ {
			s.Replace(ctx, GlobalScope, build(gen))
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				entries := s.RangeByRankDesc(ctx, GlobalScope, 0, 49)
				if len(entries) != 50 {
					t.Errorf("torn read: got %d entries", len(entries))
					return
				}
				gen := strings.SplitN(entries[0].Member, "-", 2)[0]
				for _, e := range entries {
					if strings.SplitN(e.Member, "-", 2)[0] != gen {
						t.Errorf("mixed generations in one read: %s vs %s", gen, e.Member)
						return
					}
				}
			}
		}()
	}

	wg.Wait()
}
