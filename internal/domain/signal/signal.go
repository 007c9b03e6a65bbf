// Package signal holds the independent behavioral scorers. Each scorer maps
// an immutable FeatureVector to a 1-10 sub-score with evidence strings; all
// scorers are pure and mutually independent, so callers may run them in any
// order or in parallel.
package signal

import (
	"github.com/felthound/felthound/internal/domain/features"
)

// Score bounds. Every scorer output is clamped into [MinValue, MaxValue];
// NeutralValue is returned when a category's minimum-sample gate is not met.
const (
	MinValue     = 1.0
	MaxValue     = 10.0
	NeutralValue = 5.0
)

// Category identifies one behavioral scoring category.
type Category string

// Scoring categories.
const (
	CategoryTiming    Category = "timing_regularity"
	CategoryStrategy  Category = "strategic_consistency"
	CategoryBetSizing Category = "bet_sizing_robotics"
	CategoryTilt      Category = "tilt_response"
	CategoryVariance  Category = "variance_handling"
	CategorySession   Category = "session_behavior"
)

// Categories lists all categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryTiming,
		CategoryStrategy,
		CategoryBetSizing,
		CategoryTilt,
		CategoryVariance,
		CategorySession,
	}
}

// Confidence marks whether a score is backed by enough real data.
type Confidence string

// Confidence levels. Low means the minimum-sample gate was not met, or the
// telemetry the category depends on was never measured; such scores are
// always the neutral value and carry no evidence.
const (
	ConfidenceNormal Confidence = "normal"
	ConfidenceLow    Confidence = "low"
)

// Score is one category's sub-score for one player.
type Score struct {
	Category   Category   `json:"category"`
	Value      float64    `json:"value"`  // clamped to [1,10]
	Weight     float64    `json:"weight"` // static per deployment
	Confidence Confidence `json:"confidence"`
	Evidence   []string   `json:"evidence,omitempty"`
}

// WeightedValue is the score's contribution to the composite sum.
func (s Score) WeightedValue() float64 {
	return s.Value * s.Weight
}

// scorer computes one category's score.
type scorer func(fv features.FeatureVector, cfg Config) Score

// Evaluate runs every scorer against the same feature vector and returns the
// scores in canonical category order. Scorers never fail: below-gate
// categories come back neutral with low confidence.
func Evaluate(fv features.FeatureVector, cfg Config) []Score {
	scorers := []scorer{
		scoreTiming,
		scoreStrategy,
		scoreBetSizing,
		scoreTilt,
		scoreVariance,
		scoreSession,
	}
	scores := make([]Score, 0, len(scorers))
	for _, fn := range scorers {
		scores = append(scores, fn(fv, cfg))
	}
	return scores
}

// neutral returns the gated fallback score for a category.
func neutral(cat Category, cfg Config) Score {
	return Score{
		Category:   cat,
		Value:      NeutralValue,
		Weight:     cfg.Weights[string(cat)],
		Confidence: ConfidenceLow,
	}
}

// clamp bounds a raw score into [MinValue, MaxValue].
func clamp(v float64) float64 {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}
