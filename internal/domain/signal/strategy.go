package signal

import (
	"fmt"
	"math"

	"github.com/felthound/felthound/internal/domain/features"
)

// Strategy flag contributions on the 1-10 scale.
const (
	strategyRatioFlag      = 4.0
	strategyGTOWindowFlag  = 2.5
	strategyCBetIdentical  = 4.5
	strategyCBetTight      = 3.0
	strategyCBetLoose      = 1.5
	strategyRoundStatsHigh = 2.0
	strategyRoundStatsMild = 1.0
)

// scoreStrategy flags play that sits suspiciously close to textbook-optimal
// constants: solver-exact preflop ratios, the canonical 22-24/17-19 opening
// window, flat c-bet frequencies across streets, and stats that land on
// round numbers more often than honest aggregation produces.
func scoreStrategy(fv features.FeatureVector, cfg Config) Score {
	if fv.TotalHands < cfg.MinHands || fv.VPIP <= 0 {
		return neutral(CategoryStrategy, cfg)
	}

	value := MinValue
	var evidence []string

	for _, optimal := range cfg.OptimalRatios {
		if math.Abs(fv.PreflopRatio-optimal) < cfg.RatioEpsilon {
			value += strategyRatioFlag
			evidence = append(evidence,
				fmt.Sprintf("PFR/VPIP ratio %.4f within %.3f of the solver constant %.2f",
					fv.PreflopRatio, cfg.RatioEpsilon, optimal))
			break
		}
	}

	if fv.VPIP >= cfg.GTOVPIPLow && fv.VPIP <= cfg.GTOVPIPHigh &&
		fv.PFR >= cfg.GTOPFRLow && fv.PFR <= cfg.GTOPFRHigh {
		value += strategyGTOWindowFlag
		evidence = append(evidence,
			fmt.Sprintf("VPIP %.1f / PFR %.1f sits inside the textbook GTO window", fv.VPIP, fv.PFR))
	}

	switch {
	case fv.CBetSpread < cfg.CBetSpreadIdentical:
		value += strategyCBetIdentical
		evidence = append(evidence,
			fmt.Sprintf("c-bet frequency nearly identical across flop/turn/river (spread %.1f)", fv.CBetSpread))
	case fv.CBetSpread < cfg.CBetSpreadTight:
		value += strategyCBetTight
		evidence = append(evidence,
			fmt.Sprintf("c-bet frequency spread of %.1f across streets is far below human variance", fv.CBetSpread))
	case fv.CBetSpread < cfg.CBetSpreadLoose:
		value += strategyCBetLoose
	}

	switch {
	case fv.RoundStatCount >= 3:
		value += strategyRoundStatsHigh
		evidence = append(evidence,
			fmt.Sprintf("%d of 4 headline stats land exactly on multiples of five", fv.RoundStatCount))
	case fv.RoundStatCount == 2:
		value += strategyRoundStatsMild
	}

	return Score{
		Category:   CategoryStrategy,
		Value:      clamp(value),
		Weight:     cfg.Weights[string(CategoryStrategy)],
		Confidence: ConfidenceNormal,
		Evidence:   evidence,
	}
}
