// Package cluster groups the evaluated population in behavioral feature
// space to surface cohorts of elevated collective risk: bot farms run many
// accounts off one strategy, and those accounts land close together.
package cluster

import "sort"

// AlertLevel ranks how urgently a cohort needs review.
type AlertLevel string

// Alert levels, ordered high > medium > low.
const (
	AlertHigh   AlertLevel = "high"
	AlertMedium AlertLevel = "medium"
	AlertLow    AlertLevel = "low"
)

// Point is one player projected into the 2-D clustering space. X and Y may
// arrive on arbitrary scales; Run min-max normalizes both axes to [0,100]
// before clustering.
type Point struct {
	PlayerID string
	X        float64
	Y        float64
	BotScore float64
}

// Cluster is one behavioral cohort over the current evaluated population.
// It is recomputed per batch and never persisted as authoritative state.
type Cluster struct {
	ID              int        `json:"id"`
	Centroid        [2]float64 `json:"centroid"`
	MemberIDs       []string   `json:"member_ids"`
	MeanBotScore    float64    `json:"mean_bot_score"`
	SuspiciousCount int        `json:"suspicious_member_count"`
	AlertLevel      AlertLevel `json:"alert_level"`
	// Degenerate marks the single catch-all cluster returned when the
	// population is too small for meaningful clustering.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Config carries the clustering tunables.
type Config struct {
	K             int   `koanf:"k"`
	MaxIterations int   `koanf:"max_iterations"`
	Seed          int64 `koanf:"seed"`
	// MinPopulation is the smallest population worth clustering; below it
	// Run returns one degenerate catch-all cluster.
	MinPopulation int `koanf:"min_population"`
	// SuspiciousScore is the BotScore at or above which a member counts as
	// suspicious.
	SuspiciousScore float64 `koanf:"suspicious_score"`
	// Alert thresholds.
	HighMeanScore      float64 `koanf:"high_mean_score"`
	HighSuspiciousFrac float64 `koanf:"high_suspicious_frac"`
	MediumMeanScore    float64 `koanf:"medium_mean_score"`
}

// DefaultConfig returns the deployment defaults. The seed is fixed so every
// run over the same population yields the same cohorts.
func DefaultConfig() Config {
	return Config{
		K:                  4,
		MaxIterations:      50,
		Seed:               42,
		MinPopulation:      8,
		SuspiciousScore:    50,
		HighMeanScore:      60,
		HighSuspiciousFrac: 0.3,
		MediumMeanScore:    40,
	}
}

// alertRank orders alert levels for report sorting.
func alertRank(a AlertLevel) int {
	switch a {
	case AlertHigh:
		return 0
	case AlertMedium:
		return 1
	default:
		return 2
	}
}

// assess derives the cohort aggregates and alert level for a member set.
func assess(members []Point, cfg Config) (mean float64, suspicious int, level AlertLevel) {
	if len(members) == 0 {
		return 0, 0, AlertLow
	}
	var sum float64
	for _, m := range members {
		sum += m.BotScore
		if m.BotScore >= cfg.SuspiciousScore {
			suspicious++
		}
	}
	mean = sum / float64(len(members))
	frac := float64(suspicious) / float64(len(members))

	switch {
	case mean > cfg.HighMeanScore || frac > cfg.HighSuspiciousFrac:
		level = AlertHigh
	case mean > cfg.MediumMeanScore:
		level = AlertMedium
	default:
		level = AlertLow
	}
	return mean, suspicious, level
}

// sortReport orders clusters by alert level (high first) then mean bot score
// descending, and renumbers IDs in report order.
func sortReport(clusters []Cluster) []Cluster {
	sort.Slice(clusters, func(i, j int) bool {
		ri, rj := alertRank(clusters[i].AlertLevel), alertRank(clusters[j].AlertLevel)
		if ri != rj {
			return ri < rj
		}
		return clusters[i].MeanBotScore > clusters[j].MeanBotScore
	})
	for i := range clusters {
		clusters[i].ID = i
	}
	return clusters
}
