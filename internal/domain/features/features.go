// Package features derives the normalized behavioral feature set consumed by
// the signal scorers. Extraction is a pure function over a profile snapshot
// plus optional telemetry: identical input always yields an identical vector.
package features

// FeatureVector is the immutable, per-player derived feature set. Pointer
// fields are nil when the telemetry they depend on was absent; scorers treat
// nil as "not measured" and fall back to a neutral, low-confidence score.
// Nothing in this struct is ever simulated or back-filled.
type FeatureVector struct {
	PlayerID       string
	ProfileVersion int64

	TotalHands   int
	SessionCount int

	// Profile-derived features, always present.
	VPIP             float64
	PFR              float64
	PreflopRatio     float64 // PFR/VPIP, 0 when VPIP is 0
	AggressionFactor float64
	CBetSpread       float64 // |flop-turn| + |turn-river| c-bet frequency
	BetSizeSpread    float64 // same spread over avg bet size vs pot
	HasBetSizing     bool    // false when the store carries no sizing aggregates
	WTSD             float64
	WSD              float64
	RoundStatCount   int     // how many of vpip/pfr/wtsd/wsd sit on multiples of 5
	HandsPerHour     float64 // 0 when playtime is unknown
	HandsPerSession  float64

	// Session-log features, nil without a session log.
	SessionLengthCV   *float64 // coefficient of variation of session duration
	StartHourPeakFrac *float64 // share of sessions starting in the modal hour
	OffPeakFrac       *float64 // share of sessions starting 00:00-06:00
	AvgFatigue        *float64 // mean per-session fatigue score

	// Action-timestamp features, nil without a timing log.
	ActionCount          int      // raw timestamps in the timing log
	ActivityEntropyRatio *float64 // 24h Shannon entropy / log2(24)
	ReactionVariance     *float64 // variance of inter-action gaps, seconds^2
	ReactionSamples      int      // number of usable inter-action gaps
	OverlappingActions   int      // same-instant action pairs for one player

	// Emotional-response features, nil without tilt telemetry.
	TiltEventCount *int
	AvgAggIncrease *float64

	// Bankroll-variance features, nil without variance windows.
	AvgVarianceBB *float64
	DownswingCnt  *int
}

// HasTimingLog reports whether action-timestamp telemetry was present.
func (fv *FeatureVector) HasTimingLog() bool {
	return fv.ReactionVariance != nil || fv.ActivityEntropyRatio != nil
}

// HasSessionLog reports whether a session log was present.
func (fv *FeatureVector) HasSessionLog() bool {
	return fv.SessionLengthCV != nil
}
