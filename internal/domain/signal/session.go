package signal

import (
	"fmt"

	"github.com/felthound/felthound/internal/domain/features"
)

// Session flag contributions on the 1-10 scale.
const (
	sessionIdenticalFlag = 7.0
	sessionRoboticFlag   = 4.0
	sessionOffPeakFlag   = 2.0
	sessionNoFatigueFlag = 2.0
)

// scoreSession examines session-length uniformity, off-peak volume, and the
// absence of within-session fatigue. Humans quit early, run long, and play
// worse in hour six; schedulers do none of that.
func scoreSession(fv features.FeatureVector, cfg Config) Score {
	if fv.SessionLengthCV == nil || fv.SessionCount < cfg.MinSessions {
		return neutral(CategorySession, cfg)
	}

	value := MinValue
	var evidence []string

	switch {
	case *fv.SessionLengthCV < cfg.SessionCVIdentical:
		value += sessionIdenticalFlag
		evidence = append(evidence,
			fmt.Sprintf("session durations nearly identical across %d sessions (CV %.3f)",
				fv.SessionCount, *fv.SessionLengthCV))
	case *fv.SessionLengthCV < cfg.SessionCVRobotic:
		value += sessionRoboticFlag
		evidence = append(evidence,
			fmt.Sprintf("session-length variation (CV %.2f) well below human norms", *fv.SessionLengthCV))
	}

	if fv.OffPeakFrac != nil && *fv.OffPeakFrac > cfg.OffPeakCeiling {
		value += sessionOffPeakFlag
		evidence = append(evidence,
			fmt.Sprintf("%.0f%% of sessions start between midnight and 06:00", *fv.OffPeakFrac*100))
	}

	if fv.AvgFatigue != nil && *fv.AvgFatigue < cfg.FatigueFloor {
		value += sessionNoFatigueFlag
		evidence = append(evidence,
			"no play-quality degradation over long sessions")
	}

	return Score{
		Category:   CategorySession,
		Value:      clamp(value),
		Weight:     cfg.Weights[string(CategorySession)],
		Confidence: ConfidenceNormal,
		Evidence:   evidence,
	}
}
