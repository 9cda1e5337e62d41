package refresh_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openquest/questboard/internal/adapters/cache"
	"github.com/openquest/questboard/internal/adapters/store"
	"github.com/openquest/questboard/internal/domain/model"
	"github.com/openquest/questboard/internal/domain/refresh"
	"github.com/openquest/questboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// failingStore simulates an unavailable standings store.
type failingStore struct {
	store.StandingStore
}

func (f *failingStore) AllStandings(ctx context.Context) ([]model.PlayerStanding, error) {
	return nil, errors.New("store unavailable")
}

func seedStore() *store.Memory {
	m := store.NewMemory()
	m.PutStanding(model.PlayerStanding{CharacterID: "c1", UserID: "u1", Level: 3, XP: 10})
	m.PutStanding(model.PlayerStanding{CharacterID: "c2", UserID: "u2", Level: 3, XP: 999})
	m.PutStanding(model.PlayerStanding{CharacterID: "c3", UserID: "u3", Level: 5, XP: 1})
	return m
}

func TestRefresher_Refresh(t *testing.T) {
	Convey("Given a refresher over three standings", t, func() {
		ctx := context.Background()
		board := cache.NewMemStore()
		r := refresh.New(seedStore(), board, refresh.WithMaxLevelTier(10))

		Convey("When refreshing", func() {
			err := r.Refresh(ctx)

			Convey("Then it should succeed", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the global scope holds encoded scores in rank order", func() {
				entries := board.RangeByRankDesc(ctx, cache.GlobalScope, 0, 2)
				So(entries, ShouldHaveLength, 3)
				So(entries[0].Member, ShouldEqual, "c3")
				So(entries[0].Score, ShouldEqual, 5_000_001)
				So(entries[1].Member, ShouldEqual, "c2")
				So(entries[1].Score, ShouldEqual, 3_000_999)
				So(entries[2].Member, ShouldEqual, "c1")
				So(entries[2].Score, ShouldEqual, 3_000_010)
			})

			Convey("And the tier-3 scope orders by XP alone", func() {
				entries := board.RangeByRankDesc(ctx, cache.LevelScope(3), 0, 9)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Member, ShouldEqual, "c2")
				So(entries[0].Score, ShouldEqual, 999)
				So(entries[1].Member, ShouldEqual, "c1")
				So(entries[1].Score, ShouldEqual, 10)
			})

			Convey("And tiers without members exist but are empty", func() {
				So(board.Size(ctx, cache.LevelScope(7)), ShouldEqual, 0)
			})
		})
	})
}

func TestRefresher_Idempotent(t *testing.T) {
	Convey("Given a refresher that already ran", t, func() {
		ctx := context.Background()
		board := cache.NewMemStore()
		r := refresh.New(seedStore(), board)
		So(r.Refresh(ctx), ShouldBeNil)
		first := board.RangeByRankDesc(ctx, cache.GlobalScope, 0, 9)

		Convey("When refreshing again with no data change", func() {
			So(r.Refresh(ctx), ShouldBeNil)
			second := board.RangeByRankDesc(ctx, cache.GlobalScope, 0, 9)

			Convey("Then range results are identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func TestRefresher_EmptyStore(t *testing.T) {
	Convey("Given a refresher over an empty store", t, func() {
		ctx := context.Background()
		board := cache.NewMemStore()
		r := refresh.New(store.NewMemory(), board)

		Convey("When refreshing", func() {
			err := r.Refresh(ctx)

			Convey("Then it succeeds and the global scope is empty", func() {
				So(err, ShouldBeNil)
				So(board.Size(ctx, cache.GlobalScope), ShouldEqual, 0)
			})
		})
	})
}

func TestRefresher_StoreFailureKeepsStaleCache(t *testing.T) {
	Convey("Given a populated cache and a store that starts failing", t, func() {
		ctx := context.Background()
		board := cache.NewMemStore()
		So(refresh.New(seedStore(), board).Refresh(ctx), ShouldBeNil)
		before := board.RangeByRankDesc(ctx, cache.GlobalScope, 0, 9)

		r := refresh.New(&failingStore{}, board)

		Convey("When the refresh fails", func() {
			err := r.Refresh(ctx)

			Convey("Then an error is reported", func() {
				So(err, ShouldNotBeNil)
			})

			Convey("And the stale cache is retained untouched", func() {
				after := board.RangeByRankDesc(ctx, cache.GlobalScope, 0, 9)
				So(after, ShouldResemble, before)
			})
		})
	})
}

func TestRefresher_RunAndShutdown(t *testing.T) {
	Convey("Given a running refresher with a short interval", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		board := cache.NewMemStore()
		r := refresh.New(seedStore(), board, refresh.WithInterval(10*time.Millisecond))
		go r.Run(ctx)

		Convey("When waiting past a few ticks", func() {
			time.Sleep(50 * time.Millisecond)

			Convey("Then the cache has been populated by the scheduler", func() {
				So(board.Size(ctx, cache.GlobalScope), ShouldEqual, 3)
			})

			Convey("And shutdown completes promptly", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()
				So(r.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}
