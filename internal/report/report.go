// Package report renders batch, player, and cohort results as plain-text
// audit reports. Output goes to any io.Writer; the binaries point it at
// stdout.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/felthound/felthound/internal/app"
	"github.com/felthound/felthound/internal/domain/cluster"
	"github.com/felthound/felthound/internal/domain/signal"
	"github.com/felthound/felthound/internal/domain/verdict"
)

// Tabwriter layout constants.
const (
	tabMinWidth = 0
	tabWidth    = 4
	tabPadding  = 2
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, ' ', 0)
}

// WriteBatch renders the batch summary and the top-n ranked suspect table.
func WriteBatch(w io.Writer, res app.BatchResult, topN int) error {
	s := res.Summary
	fmt.Fprintf(w, "Batch run %s\n", res.RunID)
	fmt.Fprintf(w, "  population %d, evaluated %d, failed %d, took %s\n",
		s.Population, s.Evaluated, s.Failed, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  mean bot score %.1f, max %.1f\n", s.MeanBotScore, s.MaxBotScore)
	for _, cc := range sortedCounts(s.ByClassification) {
		fmt.Fprintf(w, "  %-30s %d\n", cc.Classification, cc.Count)
	}
	fmt.Fprintln(w)

	verdicts := res.Verdicts
	if topN > 0 && len(verdicts) > topN {
		verdicts = verdicts[:topN]
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "RANK\tPLAYER\tSCORE\tCLASSIFICATION\tACTION\tLOW CONFIDENCE")
	for i, v := range verdicts {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\t%s\t%s\n",
			i+1, v.PlayerID, v.BotScore, v.Classification, v.RecommendedAction,
			joinCategories(v.LowConfidence))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "\n%d player(s) failed:\n", len(res.Errors))
		for _, pe := range res.Errors {
			fmt.Fprintf(w, "  %s [%s]: %v\n", pe.PlayerID, pe.Category, pe.Err)
		}
	}
	return nil
}

// WritePlayer renders the full per-signal breakdown for one verdict.
func WritePlayer(w io.Writer, v verdict.Verdict) error {
	fmt.Fprintf(w, "Player %s (profile v%d)\n", v.PlayerID, v.ProfileVersion)
	fmt.Fprintf(w, "  bot score %.1f: %s\n", v.BotScore, v.Classification)
	fmt.Fprintf(w, "  recommended action: %s\n\n", v.RecommendedAction)

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "CATEGORY\tVALUE\tWEIGHT\tWEIGHTED\tCONFIDENCE")
	for _, s := range v.Signals {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%s\n",
			s.Category, s.Value, s.Weight, s.WeightedValue(), s.Confidence)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(v.Evidence) > 0 {
		fmt.Fprintln(w, "\nEvidence (most severe first):")
		for _, e := range v.Evidence {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	if len(v.LowConfidence) > 0 {
		fmt.Fprintf(w, "\nNeutral for lack of data: %s\n", joinCategories(v.LowConfidence))
	}
	return nil
}

// WriteClusters renders the ranked cohort report.
func WriteClusters(w io.Writer, clusters []cluster.Cluster) error {
	if len(clusters) == 0 {
		fmt.Fprintln(w, "No evaluated players to cluster.")
		return nil
	}
	if clusters[0].Degenerate {
		fmt.Fprintln(w, "Population too small for clustering; single cohort reported.")
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "COHORT\tALERT\tMEMBERS\tSUSPICIOUS\tMEAN SCORE\tCENTROID")
	for _, c := range clusters {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.1f\t(%.1f, %.1f)\n",
			c.ID, c.AlertLevel, len(c.MemberIDs), c.SuspiciousCount,
			c.MeanBotScore, c.Centroid[0], c.Centroid[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, c := range clusters {
		if c.AlertLevel != cluster.AlertHigh {
			continue
		}
		fmt.Fprintf(w, "\nCohort %d members (high alert):\n", c.ID)
		for _, id := range c.MemberIDs {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
	return nil
}

// classCount is one classification bucket in the summary header.
type classCount struct {
	Classification string
	Count          int
}

// sortedCounts orders classification counts descending, breaking ties on
// name, so report output is stable.
func sortedCounts(counts map[string]int) []classCount {
	out := make([]classCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, classCount{Classification: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Classification < out[j].Classification
	})
	return out
}

func joinCategories(cats []signal.Category) string {
	if len(cats) == 0 {
		return "-"
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
