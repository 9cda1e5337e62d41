package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/openquest/questboard/internal/adapters/store"
	service "github.com/openquest/questboard/internal/app"
	"github.com/openquest/questboard/internal/domain/model"
	"github.com/openquest/questboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithMaxPageLimit(500),
			service.WithMaxLevelTier(5),
			service.WithRefreshInterval(time.Minute),
			service.WithDemoPlayers(10),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithDemoPlayers(20))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And the initial refresh populated the cache", func() {
				stats := svc.GetStats()
				So(stats["totalPlayers"], ShouldEqual, 20)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service with injected stores", t, func() {
		mem := store.NewMemory()
		mem.PutStanding(model.PlayerStanding{CharacterID: "c1", UserID: "u1", CharacterName: "Anya", Level: 3, XP: 10})
		mem.PutStanding(model.PlayerStanding{CharacterID: "c2", UserID: "u2", CharacterName: "Brom", Level: 3, XP: 999})
		mem.PutStanding(model.PlayerStanding{CharacterID: "c3", UserID: "u3", CharacterName: "Cyra", Level: 5, XP: 1})
		mem.PutLevel(model.LevelInfo{ID: "lv-3", OrderLevel: 3, Name: "Adept", Title: "The Focused"})

		svc := service.New(service.WithStores(mem, mem))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When querying the global page", func() {
			page, err := svc.GlobalPage(ctx, "u2", 0, 10)

			Convey("Then it serves the refreshed leaderboard", func() {
				So(err, ShouldBeNil)
				So(page.TotalElements, ShouldEqual, 3)
				So(page.Content[0].CharacterName, ShouldEqual, "Cyra")
			})
		})

		Convey("When querying a level page", func() {
			page, err := svc.LevelPage(ctx, "", "lv-3", 0, 10)

			Convey("Then it serves the tier leaderboard", func() {
				So(err, ShouldBeNil)
				So(page.TotalElements, ShouldEqual, 2)
			})
		})

		Convey("When querying my ranking", func() {
			my, err := svc.MyRanking(ctx, "u3")

			Convey("Then it reports position and percentile", func() {
				So(err, ShouldBeNil)
				So(my.Position, ShouldEqual, 1)
				So(my.Percentile, ShouldEqual, 100.0)
			})
		})

		Convey("When forcing a refresh", func() {
			mem.PutStanding(model.PlayerStanding{CharacterID: "c4", UserID: "u4", CharacterName: "Dax", Level: 1, XP: 1})
			So(svc.Refresh(ctx), ShouldBeNil)

			Convey("Then the new standing appears", func() {
				page, err := svc.GlobalPage(ctx, "", 0, 10)
				So(err, ShouldBeNil)
				So(page.TotalElements, ShouldEqual, 4)
			})
		})
	})
}

func TestService_EmptyStore(t *testing.T) {
	Convey("Given a started service over an empty store", t, func() {
		svc := service.New(service.WithStores(store.NewMemory(), store.NewMemory()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When querying the global page", func() {
			page, err := svc.GlobalPage(ctx, "", 0, 10)

			Convey("Then it returns a valid empty page, not an error", func() {
				So(err, ShouldBeNil)
				So(page.TotalElements, ShouldEqual, 0)
				So(page.Content, ShouldBeEmpty)
			})
		})
	})
}
