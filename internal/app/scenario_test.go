package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/felthound/felthound/internal/adapters/store"
	"github.com/felthound/felthound/internal/app"
	"github.com/felthound/felthound/internal/domain/model"
	"github.com/felthound/felthound/internal/domain/signal"
	"github.com/felthound/felthound/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func signalValue(v verdict.Verdict, cat signal.Category) float64 {
	for _, s := range v.Signals {
		if s.Category == cat {
			return s.Value
		}
	}
	return -1
}

func signalConfidence(v verdict.Verdict, cat signal.Category) signal.Confidence {
	for _, s := range v.Signals {
		if s.Category == cat {
			return s.Confidence
		}
	}
	return ""
}

// chartBot is a scripted account: GTO-window preflop, flat c-bets, one bet
// size, fixed four-hour sessions, and not a single tilt event over a large
// sample.
func chartBot() (model.PlayerProfile, model.Telemetry) {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	var sessions []model.SessionRecord
	for i := 0; i < 20; i++ {
		sessions = append(sessions, model.SessionRecord{
			Start:        base.AddDate(0, 0, i).Add(time.Duration(18+i%5) * time.Hour),
			Duration:     240 * time.Minute,
			HandsPlayed:  250,
			FatigueScore: 0.35,
		})
	}

	p := model.PlayerProfile{
		PlayerID:         "chart-bot",
		ProfileVersion:   1,
		TotalHands:       5000,
		SessionCount:     20,
		TotalPlaytime:    80 * time.Hour,
		VPIP:             23,
		PFR:              18,
		AggressionFactor: 2.7,
		CBetFlop:         65,
		CBetTurn:         65,
		CBetRiver:        65,
		AvgBetFlop:       0.67,
		AvgBetTurn:       0.67,
		AvgBetRiver:      0.67,
		WTSD:             26.4,
		WSD:              52.1,
	}
	t := model.Telemetry{
		Sessions:   sessions,
		TiltEvents: []model.TiltEvent{},
	}
	return p, t
}

// loosePassive is an ordinary recreational player: wide preflop range,
// street-dependent c-bets and sizing, irregular sessions, visible tilt, and
// a swingy bankroll.
func loosePassive() (model.PlayerProfile, model.Telemetry) {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	var sessions []model.SessionRecord
	for i := 0; i < 20; i++ {
		sessions = append(sessions, model.SessionRecord{
			Start:        base.AddDate(0, 0, i).Add(time.Duration(17+i%6) * time.Hour),
			Duration:     time.Duration(60+i*7) * time.Minute,
			HandsPlayed:  250,
			FatigueScore: 0.5,
		})
	}

	var actions []time.Time
	at := base.Add(20*time.Hour + 5*time.Minute)
	for i := 0; i < 150; i++ {
		at = at.Add(time.Duration(i%20+1) * time.Second)
		actions = append(actions, at)
	}

	tilts := make([]model.TiltEvent, 3)
	for i := range tilts {
		tilts[i] = model.TiltEvent{
			At:                 base.AddDate(0, 0, i*5),
			AggressionIncrease: 0.6,
		}
	}

	windows := make([]model.VarianceWindow, 8)
	for i := range windows {
		windows[i] = model.VarianceWindow{VarianceBB: 350, Downswing: i < 4}
	}

	p := model.PlayerProfile{
		PlayerID:         "loose-passive",
		ProfileVersion:   1,
		TotalHands:       5000,
		SessionCount:     20,
		TotalPlaytime:    42 * time.Hour,
		VPIP:             28.3,
		PFR:              9.2,
		AggressionFactor: 1.1,
		CBetFlop:         55,
		CBetTurn:         42,
		CBetRiver:        30,
		AvgBetFlop:       0.5,
		AvgBetTurn:       0.85,
		AvgBetRiver:      1.15,
		WTSD:             27.6,
		WSD:              48.9,
	}
	t := model.Telemetry{
		Sessions:        sessions,
		Actions:         actions,
		TiltEvents:      tilts,
		VarianceWindows: windows,
	}
	return p, t
}

func TestScenario_ChartBot(t *testing.T) {
	ctx := context.Background()

	Convey("Given a scripted chart-playing account", t, func() {
		st := store.NewMemoryStore()
		st.Put(chartBot())

		eng, err := app.New(st)
		So(err, ShouldBeNil)

		v, err := eng.ComputeVerdict(ctx, "chart-bot")
		So(err, ShouldBeNil)

		Convey("Then the consistency categories all flag hard", func() {
			So(signalValue(v, signal.CategoryStrategy), ShouldBeGreaterThanOrEqualTo, 8)
			So(signalValue(v, signal.CategoryBetSizing), ShouldBeGreaterThanOrEqualTo, 8)
			So(signalValue(v, signal.CategorySession), ShouldBeGreaterThanOrEqualTo, 8)
			So(signalValue(v, signal.CategoryTilt), ShouldEqual, 10)
		})

		Convey("Then the composite lands in the full-audit tier", func() {
			So(v.BotScore, ShouldBeGreaterThan, 60)
			So(v.Classification, ShouldEqual, "High risk / full audit")
		})

		Convey("Then the unmeasured categories stay honest", func() {
			// No variance windows and no action log were collected.
			So(signalConfidence(v, signal.CategoryVariance), ShouldEqual, signal.ConfidenceLow)
			So(signalValue(v, signal.CategoryVariance), ShouldEqual, 5)
			So(v.LowConfidence, ShouldContain, signal.CategoryVariance)
		})
	})
}

func TestScenario_LoosePassiveHuman(t *testing.T) {
	ctx := context.Background()

	Convey("Given an ordinary loose-passive player", t, func() {
		st := store.NewMemoryStore()
		st.Put(loosePassive())

		eng, err := app.New(st)
		So(err, ShouldBeNil)

		v, err := eng.ComputeVerdict(ctx, "loose-passive")
		So(err, ShouldBeNil)

		Convey("Then every category is measured and scores low", func() {
			for _, s := range v.Signals {
				So(s.Confidence, ShouldEqual, signal.ConfidenceNormal)
				So(s.Value, ShouldBeLessThanOrEqualTo, 3)
			}
		})

		Convey("Then the composite clears the player", func() {
			So(v.BotScore, ShouldBeLessThan, 20)
			So(v.Classification, ShouldEqual, "Human / no flag")
		})
	})
}

func TestScenario_EmptyVarianceWindows(t *testing.T) {
	ctx := context.Background()

	Convey("Given a player whose variance job produced zero windows", t, func() {
		p, telemetry := loosePassive()
		telemetry.VarianceWindows = []model.VarianceWindow{}

		st := store.NewMemoryStore()
		st.Put(p, telemetry)

		eng, err := app.New(st)
		So(err, ShouldBeNil)

		v, err := eng.ComputeVerdict(ctx, p.PlayerID)
		So(err, ShouldBeNil)

		Convey("Then variance scores neutral instead of reading as smooth", func() {
			So(signalValue(v, signal.CategoryVariance), ShouldEqual, 5)
			So(signalConfidence(v, signal.CategoryVariance), ShouldEqual, signal.ConfidenceLow)
			So(v.LowConfidence, ShouldContain, signal.CategoryVariance)
		})
	})
}
