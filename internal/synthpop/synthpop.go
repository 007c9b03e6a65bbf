// Package synthpop generates synthetic player populations with known ground
// truth: a human cohort with organic statistical texture and a bot-farm
// cohort carrying the behavioral signatures the scorers look for. It exists
// for demos and end-to-end verification; nothing in the evaluation pipeline
// depends on it.
package synthpop

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/felthound/felthound/internal/adapters/store"
	"github.com/felthound/felthound/internal/domain/model"
)

// Config controls one generated population.
type Config struct {
	Humans     int
	Bots       int
	Seed       int64
	SitePrefix string
}

// DefaultConfig returns a population large enough to exercise clustering.
func DefaultConfig() Config {
	return Config{
		Humans:     40,
		Bots:       10,
		Seed:       1,
		SitePrefix: "demo/",
	}
}

// Member is one generated player with its ground-truth label.
type Member struct {
	Profile   model.PlayerProfile
	Telemetry model.Telemetry
	Bot       bool
}

// Human profile ranges.
const (
	humanVPIPMin    = 18.0
	humanVPIPSpread = 14.0
	humanSessionMin = 45 * time.Minute
	humanHandsMin   = 800
	humanHandsRange = 4000
)

// Bot-farm signature constants. The farm plays one chart: GTO-window
// preflop, a single pot-fraction bet size, metronomic action gaps, and
// sessions cut to an almost fixed length.
const (
	botVPIP        = 23.0
	botPFR         = 18.0
	botCBet        = 65.0
	botBetFraction = 0.67
	botSessionLen  = 4 * time.Hour
	botHandsMin    = 8000
	botHandsRange  = 4000
	botActionGap   = 2 * time.Second
)

// Generate builds the population deterministically from the seed. Members
// come back humans first, then bots; IDs encode the cohort and ordinal.
func Generate(cfg Config) []Member {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // synthetic data only
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	members := make([]Member, 0, cfg.Humans+cfg.Bots)
	for i := 0; i < cfg.Humans; i++ {
		id := fmt.Sprintf("%shuman-%03d", cfg.SitePrefix, i)
		members = append(members, human(rng, id, base))
	}
	for i := 0; i < cfg.Bots; i++ {
		id := fmt.Sprintf("%sbot-%03d", cfg.SitePrefix, i)
		members = append(members, bot(rng, id, base))
	}
	return members
}

// Seed loads a generated population into an in-memory store.
func Seed(st *store.MemoryStore, members []Member) {
	for _, m := range members {
		st.Put(m.Profile, m.Telemetry)
	}
}

// human generates one organic player: irregular sessions, noisy reactions,
// visible tilt, and real bankroll swings.
func human(rng *rand.Rand, id string, base time.Time) Member {
	hands := humanHandsMin + rng.Intn(humanHandsRange)
	sessions := 8 + rng.Intn(30)
	vpip := humanVPIPMin + rng.Float64()*humanVPIPSpread
	pfr := vpip * (0.55 + rng.Float64()*0.3)

	var sessionLog []model.SessionRecord
	var totalPlaytime time.Duration
	for i := 0; i < sessions; i++ {
		dur := humanSessionMin + time.Duration(rng.Intn(150))*time.Minute
		// Evenings mostly, with jitter; humans rarely start at 03:00.
		startHour := 17 + rng.Intn(6)
		start := base.AddDate(0, 0, i*2).Add(time.Duration(startHour) * time.Hour)
		sessionLog = append(sessionLog, model.SessionRecord{
			Start:        start,
			Duration:     dur,
			HandsPlayed:  hands / sessions,
			FatigueScore: 0.2 + rng.Float64()*0.5,
		})
		totalPlaytime += dur
	}

	var actions []time.Time
	at := base
	for i := 0; i < 300; i++ {
		at = at.Add(time.Duration(1+rng.Intn(20)) * time.Second)
		actions = append(actions, at)
	}

	var tilts []model.TiltEvent
	for i := 0; i < 2+rng.Intn(5); i++ {
		tilts = append(tilts, model.TiltEvent{
			At:                 base.AddDate(0, 0, rng.Intn(60)),
			AggressionIncrease: 0.3 + rng.Float64()*0.8,
		})
	}

	var windows []model.VarianceWindow
	for i := 0; i < 10; i++ {
		windows = append(windows, model.VarianceWindow{
			VarianceBB: 250 + rng.Float64()*300,
			Downswing:  rng.Float64() < 0.4,
		})
	}

	cbet := 55 + rng.Float64()*20
	return Member{
		Profile: model.PlayerProfile{
			PlayerID:         id,
			ProfileVersion:   1,
			TotalHands:       hands,
			SessionCount:     sessions,
			TotalPlaytime:    totalPlaytime,
			VPIP:             vpip,
			PFR:              pfr,
			AggressionFactor: 1.5 + rng.Float64()*2,
			CBetFlop:         cbet,
			CBetTurn:         cbet - 8 - rng.Float64()*10,
			CBetRiver:        cbet - 18 - rng.Float64()*12,
			AvgBetFlop:       0.5 + rng.Float64()*0.4,
			AvgBetTurn:       0.6 + rng.Float64()*0.5,
			AvgBetRiver:      0.7 + rng.Float64()*0.6,
			WTSD:             24 + rng.Float64()*8,
			WSD:              48 + rng.Float64()*8,
			NetWinBB:         -500 + rng.Float64()*1500,
		},
		Telemetry: model.Telemetry{
			Sessions:        sessionLog,
			Actions:         actions,
			TiltEvents:      tilts,
			VarianceWindows: windows,
		},
	}
}

// bot generates one farm account. Tilt events stay an empty non-nil slice:
// the farm's telemetry was collected and recorded nothing, which is itself
// the signal.
func bot(rng *rand.Rand, id string, base time.Time) Member {
	hands := botHandsMin + rng.Intn(botHandsRange)
	sessions := 30 + rng.Intn(10)

	var sessionLog []model.SessionRecord
	var totalPlaytime time.Duration
	for i := 0; i < sessions; i++ {
		// Length jitter under a minute on a four-hour session.
		dur := botSessionLen + time.Duration(rng.Intn(50))*time.Second
		start := base.AddDate(0, 0, i).Add(2 * time.Hour) // 02:00, every day
		sessionLog = append(sessionLog, model.SessionRecord{
			Start:        start,
			Duration:     dur,
			HandsPlayed:  hands / sessions,
			FatigueScore: 0,
		})
		totalPlaytime += dur
	}

	var actions []time.Time
	at := base
	for i := 0; i < 300; i++ {
		at = at.Add(botActionGap + time.Duration(rng.Intn(80))*time.Millisecond)
		actions = append(actions, at)
	}

	windows := make([]model.VarianceWindow, 10)
	for i := range windows {
		windows[i] = model.VarianceWindow{VarianceBB: 40 + rng.Float64()*40}
	}

	return Member{
		Bot: true,
		Profile: model.PlayerProfile{
			PlayerID:         id,
			ProfileVersion:   1,
			TotalHands:       hands,
			SessionCount:     sessions,
			TotalPlaytime:    totalPlaytime,
			VPIP:             botVPIP,
			PFR:              botPFR,
			AggressionFactor: 2.8,
			CBetFlop:         botCBet,
			CBetTurn:         botCBet,
			CBetRiver:        botCBet,
			AvgBetFlop:       botBetFraction,
			AvgBetTurn:       botBetFraction,
			AvgBetRiver:      botBetFraction,
			WTSD:             25,
			WSD:              55,
			NetWinBB:         1200 + rng.Float64()*400,
		},
		Telemetry: model.Telemetry{
			Sessions:        sessionLog,
			Actions:         actions,
			TiltEvents:      []model.TiltEvent{},
			VarianceWindows: windows,
		},
	}
}
