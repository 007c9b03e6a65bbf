// Package verdict folds the per-category signal scores into a single
// composite BotScore, classification tier, and severity-ordered evidence
// list. Aggregation is pure: same scores and config, same verdict.
package verdict

import (
	"github.com/felthound/felthound/internal/domain/signal"
)

// BotScore bounds.
const (
	MinBotScore = 0.0
	MaxBotScore = 100.0
)

// Tier maps a BotScore band to a classification and a recommended action.
// Max is the inclusive upper bound of the band.
type Tier struct {
	Max            float64 `koanf:"max"`
	Classification string  `koanf:"classification"`
	Action         string  `koanf:"action"`
}

// Verdict is the composite result for one player. Signals are read-only
// references to the scorer outputs; Evidence is ordered most-severe-first by
// weighted contribution.
type Verdict struct {
	PlayerID          string         `json:"player_id"`
	ProfileVersion    int64          `json:"profile_version"`
	BotScore          float64        `json:"bot_score"`
	Classification    string         `json:"classification"`
	RecommendedAction string         `json:"recommended_action"`
	Signals           []signal.Score `json:"signal_scores"`
	Evidence          []string       `json:"evidence"`
	// LowConfidence lists the categories that fell back to the neutral
	// score for lack of measured data. Auditors need to know which signals
	// were real before acting on the composite.
	LowConfidence []signal.Category `json:"low_confidence,omitempty"`
}

// Config carries the aggregation tunables.
type Config struct {
	// Tiers must be ordered by strictly increasing Max; the last tier
	// catches everything above the second-to-last bound.
	Tiers []Tier `koanf:"tiers"`
	// NotableFloors sets, per category, the sub-score at or above which a
	// scorer's evidence makes it into the composite verdict.
	NotableFloors map[string]float64 `koanf:"notable_floors"`
}

// DefaultNotableFloor applies to categories without an explicit floor.
const DefaultNotableFloor = 7.0

// DefaultConfig returns the deployment default tiers and notable floors.
func DefaultConfig() Config {
	return Config{
		Tiers: []Tier{
			{Max: 20, Classification: "Human / no flag", Action: "none"},
			{Max: 40, Classification: "Disciplined / passive watch", Action: "passive watch"},
			{Max: 60, Classification: "Suspicious / quick review", Action: "quick review"},
			{Max: 80, Classification: "High risk / full audit", Action: "full audit"},
			{Max: MaxBotScore, Classification: "Critical / auto-ban review", Action: "auto-ban review"},
		},
		NotableFloors: map[string]float64{},
	}
}

// Classify resolves a bot score to its tier. Bounds are inclusive on the
// upper edge: exactly 20.0 is still "Human / no flag".
func Classify(botScore float64, tiers []Tier) Tier {
	for _, t := range tiers {
		if botScore <= t.Max {
			return t
		}
	}
	return tiers[len(tiers)-1]
}
