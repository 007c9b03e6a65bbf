package verdict

import (
	"sort"

	"github.com/felthound/felthound/internal/domain/signal"
)

// Aggregate computes the composite verdict from the per-category scores.
//
// Neutral low-confidence scores are included in the weighted sum on purpose:
// excluding them would make the scale incomparable between players with
// different data completeness, silently rewarding players the store knows
// less about. The tests document this choice.
func Aggregate(playerID string, profileVersion int64, scores []signal.Score, cfg Config) Verdict {
	var weightedSum, weightTotal float64
	var lowConfidence []signal.Category
	for _, s := range scores {
		weightedSum += s.WeightedValue()
		weightTotal += s.Weight
		if s.Confidence == signal.ConfidenceLow {
			lowConfidence = append(lowConfidence, s.Category)
		}
	}

	botScore := MinBotScore
	if weightTotal > 0 {
		botScore = MaxBotScore * weightedSum / (signal.MaxValue * weightTotal)
	}
	if botScore < MinBotScore {
		botScore = MinBotScore
	}
	if botScore > MaxBotScore {
		botScore = MaxBotScore
	}

	tier := Classify(botScore, cfg.Tiers)

	return Verdict{
		PlayerID:          playerID,
		ProfileVersion:    profileVersion,
		BotScore:          botScore,
		Classification:    tier.Classification,
		RecommendedAction: tier.Action,
		Signals:           scores,
		Evidence:          collectEvidence(scores, cfg),
		LowConfidence:     lowConfidence,
	}
}

// collectEvidence flattens evidence from every notable score, ordered by
// weighted contribution descending. Ties break on category name so the
// ordering is fully deterministic.
func collectEvidence(scores []signal.Score, cfg Config) []string {
	notable := make([]signal.Score, 0, len(scores))
	for _, s := range scores {
		if len(s.Evidence) == 0 {
			continue
		}
		floor := DefaultNotableFloor
		if f, ok := cfg.NotableFloors[string(s.Category)]; ok {
			floor = f
		}
		if s.Value >= floor {
			notable = append(notable, s)
		}
	}

	sort.Slice(notable, func(i, j int) bool {
		wi, wj := notable[i].WeightedValue(), notable[j].WeightedValue()
		if wi != wj {
			return wi > wj
		}
		return notable[i].Category < notable[j].Category
	})

	var evidence []string
	for _, s := range notable {
		evidence = append(evidence, s.Evidence...)
	}
	return evidence
}
