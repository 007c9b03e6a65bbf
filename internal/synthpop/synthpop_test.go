package synthpop_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/felthound/felthound/internal/adapters/store"
	"github.com/felthound/felthound/internal/synthpop"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate_Determinism(t *testing.T) {
	Convey("Given the same seed", t, func() {
		cfg := synthpop.DefaultConfig()
		first := synthpop.Generate(cfg)
		second := synthpop.Generate(cfg)

		Convey("Then generation is reproducible member for member", func() {
			So(second, ShouldResemble, first)
		})
	})

	Convey("Given a different seed", t, func() {
		cfg := synthpop.DefaultConfig()
		first := synthpop.Generate(cfg)
		cfg.Seed = 99
		second := synthpop.Generate(cfg)

		Convey("Then the populations differ", func() {
			So(second, ShouldNotResemble, first)
		})
	})
}

func TestGenerate_Cohorts(t *testing.T) {
	Convey("Given the default population", t, func() {
		members := synthpop.Generate(synthpop.DefaultConfig())

		Convey("Then cohort sizes and labels line up", func() {
			So(len(members), ShouldEqual, 50)

			humans, bots := 0, 0
			for _, m := range members {
				if m.Bot {
					bots++
					So(m.Profile.PlayerID, ShouldStartWith, "demo/bot-")
				} else {
					humans++
					So(m.Profile.PlayerID, ShouldStartWith, "demo/human-")
				}
			}
			So(humans, ShouldEqual, 40)
			So(bots, ShouldEqual, 10)
		})

		Convey("Then every bot carries the farm signature", func() {
			for _, m := range members {
				if !m.Bot {
					continue
				}
				p := m.Profile
				So(p.AvgBetFlop, ShouldEqual, p.AvgBetTurn)
				So(p.AvgBetTurn, ShouldEqual, p.AvgBetRiver)
				So(p.CBetFlop, ShouldEqual, p.CBetTurn)
				So(p.CBetTurn, ShouldEqual, p.CBetRiver)

				So(m.Telemetry.TiltEvents, ShouldNotBeNil)
				So(len(m.Telemetry.TiltEvents), ShouldEqual, 0)

				for _, w := range m.Telemetry.VarianceWindows {
					So(w.Downswing, ShouldBeFalse)
					So(w.VarianceBB, ShouldBeLessThan, 100)
				}
				for _, s := range m.Telemetry.Sessions {
					So(s.FatigueScore, ShouldEqual, 0)
					So(s.Start.UTC().Hour(), ShouldEqual, 2)
				}
			}
		})

		Convey("Then humans keep organic texture", func() {
			for _, m := range members {
				if m.Bot {
					continue
				}
				So(len(m.Telemetry.TiltEvents), ShouldBeGreaterThan, 0)
				So(m.Profile.CBetFlop, ShouldBeGreaterThan, m.Profile.CBetTurn)
			}
		})
	})
}

func TestSeed_MemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a population seeded into a memory store", t, func() {
		st := store.NewMemoryStore()
		synthpop.Seed(st, synthpop.Generate(synthpop.DefaultConfig()))

		Convey("Then every member is listable and fetchable", func() {
			players, err := st.ListPlayers(ctx, store.Filter{})
			So(err, ShouldBeNil)
			So(len(players), ShouldEqual, 50)

			p, err := st.GetPlayerProfile(ctx, "demo/bot-003")
			So(err, ShouldBeNil)
			So(p.VPIP, ShouldEqual, 23)
		})
	})
}

func TestSeedSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()

	Convey("Given a population written to a SQLite file", t, func() {
		members := synthpop.Generate(synthpop.DefaultConfig())
		path := filepath.Join(t.TempDir(), "demo.db")
		So(synthpop.SeedSQLite(ctx, path, members), ShouldBeNil)

		st, err := store.NewSQLiteStore(path)
		So(err, ShouldBeNil)
		defer st.Close()

		Convey("Then the full population is listable", func() {
			players, err := st.ListPlayers(ctx, store.Filter{})
			So(err, ShouldBeNil)
			So(len(players), ShouldEqual, 50)
		})

		Convey("Then profiles round-trip field for field", func() {
			var want synthpop.Member
			for _, m := range members {
				if strings.HasSuffix(m.Profile.PlayerID, "human-000") {
					want = m
					break
				}
			}

			got, err := st.GetPlayerProfile(ctx, want.Profile.PlayerID)
			So(err, ShouldBeNil)
			So(got.ProfileVersion, ShouldEqual, want.Profile.ProfileVersion)
			So(got.TotalHands, ShouldEqual, want.Profile.TotalHands)
			So(got.VPIP, ShouldAlmostEqual, want.Profile.VPIP, 0.0001)
			So(got.PFR, ShouldAlmostEqual, want.Profile.PFR, 0.0001)
			So(got.WSD, ShouldAlmostEqual, want.Profile.WSD, 0.0001)
		})

		Convey("Then telemetry round-trips with counts intact", func() {
			var want synthpop.Member
			for _, m := range members {
				if strings.HasSuffix(m.Profile.PlayerID, "bot-000") {
					want = m
					break
				}
			}
			id := want.Profile.PlayerID

			sessions, err := st.GetSessionLog(ctx, id)
			So(err, ShouldBeNil)
			So(len(sessions), ShouldEqual, len(want.Telemetry.Sessions))
			So(sessions[0].Duration.Round(time.Second), ShouldEqual,
				want.Telemetry.Sessions[0].Duration)

			actions, err := st.GetActionTimestamps(ctx, id)
			So(err, ShouldBeNil)
			So(len(actions), ShouldEqual, 300)

			tilts, err := st.GetTiltEvents(ctx, id)
			So(err, ShouldBeNil)
			So(len(tilts), ShouldEqual, 0)

			windows, err := st.GetVarianceWindows(ctx, id)
			So(err, ShouldBeNil)
			So(len(windows), ShouldEqual, 10)
			So(windows[0].Downswing, ShouldBeFalse)
		})
	})
}
