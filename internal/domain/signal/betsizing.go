package signal

import (
	"fmt"

	"github.com/felthound/felthound/internal/domain/features"
)

// Bet-sizing tier values on the 1-10 scale.
const (
	betSizingRoboticValue = 10.0
	betSizingTightValue   = 7.0
	betSizingHumanValue   = 3.0
)

// scoreBetSizing flags near-zero variance in average bet size relative to
// pot across streets. Humans size up and down with board texture; scripted
// sizing tables do not.
func scoreBetSizing(fv features.FeatureVector, cfg Config) Score {
	if fv.TotalHands < cfg.MinHands || !fv.HasBetSizing {
		return neutral(CategoryBetSizing, cfg)
	}

	value := betSizingHumanValue
	var evidence []string
	switch {
	case fv.BetSizeSpread < cfg.BetSpreadRobotic:
		value = betSizingRoboticValue
		evidence = append(evidence,
			fmt.Sprintf("average bet size varies by only %.2f pot across streets", fv.BetSizeSpread))
	case fv.BetSizeSpread < cfg.BetSpreadTight:
		value = betSizingTightValue
		evidence = append(evidence,
			fmt.Sprintf("cross-street bet sizing spread %.2f pot is tighter than typical human play", fv.BetSizeSpread))
	}

	return Score{
		Category:   CategoryBetSizing,
		Value:      clamp(value),
		Weight:     cfg.Weights[string(CategoryBetSizing)],
		Confidence: ConfidenceNormal,
		Evidence:   evidence,
	}
}
