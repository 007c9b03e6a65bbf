package features

import (
	"math"
	"sort"
	"time"

	"github.com/felthound/felthound/internal/domain/model"
)

// Extraction constants.
const (
	hoursPerDay = 24
	// offPeakEndHour closes the 00:00-06:00 off-peak window.
	offPeakEndHour = 6
	// maxReactionGap caps inter-action gaps counted as reactions; anything
	// longer is a break between hands or tables, not a decision.
	maxReactionGap = 5 * time.Minute
	// roundStatEpsilon absorbs float noise when testing for multiples of 5.
	roundStatEpsilon = 1e-9
)

// Extract derives a FeatureVector from a profile snapshot and optional
// telemetry. A nil telemetry slice means "not measured" and leaves the
// dependent pointer fields nil; an empty non-nil slice is a real measurement
// of zero, except for variance windows, where no windows means no
// measurement at all. Extract never fails and never consults the clock.
func Extract(p model.PlayerProfile, t model.Telemetry) FeatureVector {
	fv := FeatureVector{
		PlayerID:         p.PlayerID,
		ProfileVersion:   p.ProfileVersion,
		TotalHands:       p.TotalHands,
		SessionCount:     p.SessionCount,
		VPIP:             p.VPIP,
		PFR:              p.PFR,
		AggressionFactor: p.AggressionFactor,
		WTSD:             p.WTSD,
		WSD:              p.WSD,
	}

	if p.VPIP > 0 {
		fv.PreflopRatio = p.PFR / p.VPIP
	}
	fv.CBetSpread = math.Abs(p.CBetFlop-p.CBetTurn) + math.Abs(p.CBetTurn-p.CBetRiver)
	fv.BetSizeSpread = math.Abs(p.AvgBetFlop-p.AvgBetTurn) + math.Abs(p.AvgBetTurn-p.AvgBetRiver)
	fv.HasBetSizing = p.AvgBetFlop > 0 || p.AvgBetTurn > 0 || p.AvgBetRiver > 0
	fv.RoundStatCount = countRoundStats(p.VPIP, p.PFR, p.WTSD, p.WSD)

	if hours := p.TotalPlaytime.Hours(); hours > 0 {
		fv.HandsPerHour = float64(p.TotalHands) / hours
	}
	if p.SessionCount > 0 {
		fv.HandsPerSession = float64(p.TotalHands) / float64(p.SessionCount)
	}

	extractSessionFeatures(&fv, t.Sessions)
	extractTimingFeatures(&fv, t.Actions)

	if t.TiltEvents != nil {
		count := len(t.TiltEvents)
		fv.TiltEventCount = &count
		var sum float64
		for _, ev := range t.TiltEvents {
			sum += ev.AggressionIncrease
		}
		avg := 0.0
		if count > 0 {
			avg = sum / float64(count)
		}
		fv.AvgAggIncrease = &avg
	}

	// Zero variance windows means the windowing job never produced output
	// for this player, not that the bankroll ran perfectly smooth. Only a
	// populated window set counts as a measurement.
	if len(t.VarianceWindows) > 0 {
		variances := make([]float64, 0, len(t.VarianceWindows))
		downswings := 0
		for _, w := range t.VarianceWindows {
			variances = append(variances, w.VarianceBB)
			if w.Downswing {
				downswings++
			}
		}
		avg := Mean(variances)
		fv.AvgVarianceBB = &avg
		fv.DownswingCnt = &downswings
	}

	return fv
}

func extractSessionFeatures(fv *FeatureVector, sessions []model.SessionRecord) {
	if sessions == nil {
		return
	}
	durations := make([]float64, 0, len(sessions))
	startHours := make([]int, hoursPerDay)
	offPeak := 0
	var fatigueSum float64
	for _, s := range sessions {
		durations = append(durations, s.Duration.Minutes())
		hour := s.Start.UTC().Hour()
		startHours[hour]++
		if hour < offPeakEndHour {
			offPeak++
		}
		fatigueSum += s.FatigueScore
	}

	cv := CoefficientOfVariation(durations)
	fv.SessionLengthCV = &cv

	if len(sessions) > 0 {
		peak := 0
		for _, c := range startHours {
			if c > peak {
				peak = c
			}
		}
		peakFrac := float64(peak) / float64(len(sessions))
		fv.StartHourPeakFrac = &peakFrac

		offPeakFrac := float64(offPeak) / float64(len(sessions))
		fv.OffPeakFrac = &offPeakFrac

		avgFatigue := fatigueSum / float64(len(sessions))
		fv.AvgFatigue = &avgFatigue
	}
}

func extractTimingFeatures(fv *FeatureVector, actions []time.Time) {
	if actions == nil {
		return
	}

	// Sort a copy so extraction stays independent of input ordering.
	sorted := make([]time.Time, len(actions))
	copy(sorted, actions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	hourCounts := make([]int, hoursPerDay)
	gaps := make([]float64, 0, len(sorted))
	overlapping := 0
	for i, ts := range sorted {
		hourCounts[ts.UTC().Hour()]++
		if i == 0 {
			continue
		}
		gap := ts.Sub(sorted[i-1])
		if gap == 0 {
			overlapping++
			continue
		}
		if gap > 0 && gap <= maxReactionGap {
			gaps = append(gaps, gap.Seconds())
		}
	}

	fv.ActionCount = len(sorted)
	fv.OverlappingActions = overlapping
	fv.ReactionSamples = len(gaps)
	if len(gaps) > 0 {
		variance := Variance(gaps)
		fv.ReactionVariance = &variance
	}
	if len(sorted) > 0 {
		ratio := ShannonEntropy(hourCounts) / math.Log2(hoursPerDay)
		fv.ActivityEntropyRatio = &ratio
	}
}

func countRoundStats(stats ...float64) int {
	count := 0
	for _, v := range stats {
		if v <= 0 {
			continue
		}
		if math.Abs(math.Mod(v, 5)) < roundStatEpsilon {
			count++
		}
	}
	return count
}
