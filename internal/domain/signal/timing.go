package signal

import (
	"fmt"

	"github.com/felthound/felthound/internal/domain/features"
)

// Timing flag contributions on the 1-10 scale.
const (
	timingVarianceFlag = 5.0
	timingClusterFlag  = 3.0
	timingEntropyFlag  = 2.5
)

// scoreTiming penalizes machine-regular timing. Overlapping same-instant
// actions trump every gate: the log exists and shows something a single
// human cannot physically do, so the score is forced to the maximum.
func scoreTiming(fv features.FeatureVector, cfg Config) Score {
	weight := cfg.Weights[string(CategoryTiming)]

	if fv.OverlappingActions > 0 {
		return Score{
			Category:   CategoryTiming,
			Value:      MaxValue,
			Weight:     weight,
			Confidence: ConfidenceNormal,
			Evidence: []string{
				fmt.Sprintf("%d same-instant action pairs recorded; one player cannot act twice at the same moment", fv.OverlappingActions),
			},
		}
	}

	value := MinValue
	var evidence []string
	measured := false

	if fv.ReactionVariance != nil && fv.ReactionSamples >= cfg.MinReactionSamples {
		measured = true
		if *fv.ReactionVariance < cfg.ReactionVarianceFloor {
			value += timingVarianceFlag
			evidence = append(evidence,
				fmt.Sprintf("reaction-time variance %.3fs² below the human floor of %.1fs² over %d decisions",
					*fv.ReactionVariance, cfg.ReactionVarianceFloor, fv.ReactionSamples))
		}
	}

	if fv.StartHourPeakFrac != nil && fv.SessionCount >= cfg.MinSessions {
		measured = true
		if *fv.StartHourPeakFrac > cfg.StartHourClusterRatio {
			value += timingClusterFlag
			evidence = append(evidence,
				fmt.Sprintf("%.0f%% of sessions start in the same hour of day", *fv.StartHourPeakFrac*100))
		}
	}

	if fv.ActivityEntropyRatio != nil && fv.ActionCount >= cfg.MinActions {
		measured = true
		if *fv.ActivityEntropyRatio > cfg.EntropyRatioCeiling {
			value += timingEntropyFlag
			evidence = append(evidence,
				fmt.Sprintf("24h activity entropy at %.0f%% of uniform; play is spread evenly around the clock",
					*fv.ActivityEntropyRatio*100))
		}
	}

	if !measured {
		return neutral(CategoryTiming, cfg)
	}

	return Score{
		Category:   CategoryTiming,
		Value:      clamp(value),
		Weight:     weight,
		Confidence: ConfidenceNormal,
		Evidence:   evidence,
	}
}
