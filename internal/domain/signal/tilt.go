package signal

import (
	"fmt"

	"github.com/felthound/felthound/internal/domain/features"
)

// Tilt scoring coefficients: each event costs two points, and a large
// average aggression jump per event costs five more. Frequent,
// typically-sized tilt is the most human signal in the whole pipeline.
const (
	tiltEventPenalty    = 2.0
	tiltIncreasePenalty = 5.0
	tiltNotableFloor    = 7.0
)

// scoreTilt counts aggression spikes after losing pots. A total absence of
// tilt over a large sample is maximally suspicious.
func scoreTilt(fv features.FeatureVector, cfg Config) Score {
	if fv.TiltEventCount == nil || fv.SessionCount < cfg.MinSessions {
		return neutral(CategoryTilt, cfg)
	}

	weight := cfg.Weights[string(CategoryTilt)]
	count := *fv.TiltEventCount

	if count == 0 {
		return Score{
			Category:   CategoryTilt,
			Value:      MaxValue,
			Weight:     weight,
			Confidence: ConfidenceNormal,
			Evidence: []string{
				fmt.Sprintf("zero tilt events across %d sessions and %d hands", fv.SessionCount, fv.TotalHands),
			},
		}
	}

	avgIncrease := 0.0
	if fv.AvgAggIncrease != nil {
		avgIncrease = *fv.AvgAggIncrease
	}
	value := clamp(MaxValue - tiltEventPenalty*float64(count) - tiltIncreasePenalty*avgIncrease)

	var evidence []string
	if value >= tiltNotableFloor {
		evidence = append(evidence,
			fmt.Sprintf("only %d mild tilt events across %d sessions", count, fv.SessionCount))
	}

	return Score{
		Category:   CategoryTilt,
		Value:      value,
		Weight:     weight,
		Confidence: ConfidenceNormal,
		Evidence:   evidence,
	}
}
