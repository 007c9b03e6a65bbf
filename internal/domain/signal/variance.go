package signal

import (
	"fmt"

	"github.com/felthound/felthound/internal/domain/features"
)

// Variance tier values, averaged pairwise into the final 1-10 score.
const (
	varianceSmoothValue  = 9.0
	varianceNormalValue  = 5.0
	varianceSwingyValue  = 2.0
	downswingNoneValue   = 9.0
	downswingFewValue    = 4.0
	downswingNormalValue = 1.0
)

// scoreVariance compares observed bankroll variance and downswing frequency
// against what the player's volume should produce. Poker results are noisy;
// a smooth bankroll curve over real volume means the results are managed.
func scoreVariance(fv features.FeatureVector, cfg Config) Score {
	if fv.AvgVarianceBB == nil || fv.TotalHands < cfg.MinHands {
		return neutral(CategoryVariance, cfg)
	}

	var evidence []string

	varValue := varianceSwingyValue
	switch {
	case *fv.AvgVarianceBB < cfg.VarianceSmooth:
		varValue = varianceSmoothValue
		evidence = append(evidence,
			fmt.Sprintf("bankroll variance %.0fbb is unnaturally smooth for %d hands", *fv.AvgVarianceBB, fv.TotalHands))
	case *fv.AvgVarianceBB < cfg.VarianceNormal:
		varValue = varianceNormalValue
	}

	downValue := downswingNormalValue
	downswings := 0
	if fv.DownswingCnt != nil {
		downswings = *fv.DownswingCnt
	}
	switch {
	case downswings == 0:
		downValue = downswingNoneValue
		evidence = append(evidence,
			fmt.Sprintf("no downswing windows recorded over %d hands", fv.TotalHands))
	case downswings < cfg.DownswingFew:
		downValue = downswingFewValue
	}

	return Score{
		Category:   CategoryVariance,
		Value:      clamp((varValue + downValue) / 2),
		Weight:     cfg.Weights[string(CategoryVariance)],
		Confidence: ConfidenceNormal,
		Evidence:   evidence,
	}
}
