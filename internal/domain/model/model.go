// Package model contains domain models passed between layers.
package model

import "time"

// PlayerProfile is the per-player statistical aggregate produced by the
// analytics store. It is read-only to the scoring engine; a fresh snapshot
// is fetched per evaluation.
type PlayerProfile struct {
	PlayerID string
	// ProfileVersion is bumped by the analytics store on every re-import.
	// Verdict caching is keyed on (PlayerID, ProfileVersion).
	ProfileVersion int64

	TotalHands   int
	SessionCount int
	// TotalPlaytime is accumulated table time across all sessions.
	TotalPlaytime time.Duration

	// Preflop aggregates, percentages in [0,100].
	VPIP float64
	PFR  float64

	AggressionFactor float64

	// Continuation-bet frequency per street, percentages in [0,100].
	CBetFlop  float64
	CBetTurn  float64
	CBetRiver float64

	// Average bet size per street as a fraction of the pot.
	AvgBetFlop  float64
	AvgBetTurn  float64
	AvgBetRiver float64

	// Showdown aggregates: went-to-showdown % and won-at-showdown %.
	WTSD float64
	WSD  float64

	NetWinBB float64
}

// SessionRecord is one table session from the session log.
type SessionRecord struct {
	Start       time.Time
	Duration    time.Duration
	HandsPlayed int
	// FatigueScore in [0,1]; higher means measurable play-quality
	// degradation toward the end of the session.
	FatigueScore float64
}

// TiltEvent marks an aggression spike following a lost pot.
type TiltEvent struct {
	At time.Time
	// AggressionIncrease is the relative jump in aggression factor
	// observed in the hands after the losing pot.
	AggressionIncrease float64
}

// VarianceWindow is one fixed-size bankroll window with its observed
// variance and whether the window qualified as a downswing.
type VarianceWindow struct {
	VarianceBB float64
	Downswing  bool
}

// Telemetry bundles the optional per-player logs. Any slice may be nil when
// the analytics store has no telemetry of that kind for the player; the
// feature extractor degrades to low-confidence features instead of failing.
type Telemetry struct {
	Sessions        []SessionRecord
	Actions         []time.Time
	TiltEvents      []TiltEvent
	VarianceWindows []VarianceWindow
}
