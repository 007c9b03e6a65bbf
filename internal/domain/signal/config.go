package signal

// Config carries every tunable the scorers consult. All of the original
// deployment's magic constants live here as named, versioned settings;
// DefaultConfig returns the values the production dashboard shipped with.
type Config struct {
	// Weights is the static per-deployment category weight table, keyed by
	// Category string. Validation (all entries present and positive) happens
	// at startup in the config package.
	Weights map[string]float64 `koanf:"weights"`

	// Minimum-sample gates. A category below its gate scores neutral with
	// low confidence instead of guessing.
	MinHands           int `koanf:"min_hands"`
	MinSessions        int `koanf:"min_sessions"`
	MinActions         int `koanf:"min_actions"`
	MinReactionSamples int `koanf:"min_reaction_samples"`

	// Timing-regularity thresholds.
	ReactionVarianceFloor float64 `koanf:"reaction_variance_floor"` // seconds^2
	StartHourClusterRatio float64 `koanf:"start_hour_cluster_ratio"`
	EntropyRatioCeiling   float64 `koanf:"entropy_ratio_ceiling"`

	// Strategic-consistency thresholds.
	OptimalRatios       []float64 `koanf:"optimal_ratios"`
	RatioEpsilon        float64   `koanf:"ratio_epsilon"`
	GTOVPIPLow          float64   `koanf:"gto_vpip_low"`
	GTOVPIPHigh         float64   `koanf:"gto_vpip_high"`
	GTOPFRLow           float64   `koanf:"gto_pfr_low"`
	GTOPFRHigh          float64   `koanf:"gto_pfr_high"`
	CBetSpreadIdentical float64   `koanf:"cbet_spread_identical"`
	CBetSpreadTight     float64   `koanf:"cbet_spread_tight"`
	CBetSpreadLoose     float64   `koanf:"cbet_spread_loose"`

	// Bet-sizing thresholds, in pot fractions.
	BetSpreadRobotic float64 `koanf:"bet_spread_robotic"`
	BetSpreadTight   float64 `koanf:"bet_spread_tight"`

	// Variance-handling thresholds, in big blinds.
	VarianceSmooth float64 `koanf:"variance_smooth"`
	VarianceNormal float64 `koanf:"variance_normal"`
	DownswingFew   int     `koanf:"downswing_few"`

	// Session-behavior thresholds.
	SessionCVIdentical float64 `koanf:"session_cv_identical"`
	SessionCVRobotic   float64 `koanf:"session_cv_robotic"`
	OffPeakCeiling     float64 `koanf:"off_peak_ceiling"`
	FatigueFloor       float64 `koanf:"fatigue_floor"`
}

// DefaultConfig returns the deployment defaults. Timing and tilt carry double
// weight and variance 1.5x: those categories are the hardest for a bot
// operator to fake and the cheapest for a human to satisfy.
func DefaultConfig() Config {
	return Config{
		Weights: map[string]float64{
			string(CategoryTiming):    2.0,
			string(CategoryStrategy):  1.0,
			string(CategoryBetSizing): 1.0,
			string(CategoryTilt):      2.0,
			string(CategoryVariance):  1.5,
			string(CategorySession):   1.0,
		},
		MinHands:           100,
		MinSessions:        5,
		MinActions:         100,
		MinReactionSamples: 50,

		ReactionVarianceFloor: 1.0,
		StartHourClusterRatio: 0.5,
		EntropyRatioCeiling:   0.85,

		OptimalRatios:       []float64{0.67, 0.75, 0.80},
		RatioEpsilon:        0.005,
		GTOVPIPLow:          22,
		GTOVPIPHigh:         24,
		GTOPFRLow:           17,
		GTOPFRHigh:          19,
		CBetSpreadIdentical: 1,
		CBetSpreadTight:     3,
		CBetSpreadLoose:     8,

		BetSpreadRobotic: 0.1,
		BetSpreadTight:   0.5,

		VarianceSmooth: 100,
		VarianceNormal: 300,
		DownswingFew:   3,

		SessionCVIdentical: 0.02,
		SessionCVRobotic:   0.15,
		OffPeakCeiling:     0.5,
		FatigueFloor:       0.1,
	}
}
