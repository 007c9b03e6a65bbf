package verdict_test

import (
	"testing"

	"github.com/felthound/felthound/internal/domain/signal"
	"github.com/felthound/felthound/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func score(cat signal.Category, value, weight float64) signal.Score {
	return signal.Score{
		Category:   cat,
		Value:      value,
		Weight:     weight,
		Confidence: signal.ConfidenceNormal,
	}
}

func TestAggregate_CompositeScore(t *testing.T) {
	cfg := verdict.DefaultConfig()

	Convey("Given a single maximal score", t, func() {
		v := verdict.Aggregate("p1", 1, []signal.Score{
			score(signal.CategoryTiming, 10, 2),
		}, cfg)

		Convey("Then the composite reaches the ceiling", func() {
			So(v.BotScore, ShouldAlmostEqual, 100)
			So(v.Classification, ShouldEqual, "Critical / auto-ban review")
			So(v.RecommendedAction, ShouldEqual, "auto-ban review")
		})
	})

	Convey("Given mixed weighted scores", t, func() {
		v := verdict.Aggregate("p1", 1, []signal.Score{
			score(signal.CategoryTiming, 10, 2),
			score(signal.CategoryStrategy, 1, 1),
			score(signal.CategoryTilt, 4, 2),
		}, cfg)

		Convey("Then the weighted normalization holds", func() {
			// (20 + 1 + 8) / (10 * 5) * 100
			So(v.BotScore, ShouldAlmostEqual, 58)
			So(v.Classification, ShouldEqual, "Suspicious / quick review")
		})
	})

	Convey("Given no scores at all", t, func() {
		v := verdict.Aggregate("p1", 1, nil, cfg)

		Convey("Then the composite floors at zero", func() {
			So(v.BotScore, ShouldEqual, 0)
			So(v.Classification, ShouldEqual, "Human / no flag")
		})
	})

	Convey("Given identical scores, raising one raises the composite", t, func() {
		base := []signal.Score{
			score(signal.CategoryTiming, 5, 2),
			score(signal.CategoryStrategy, 5, 1),
		}
		raised := []signal.Score{
			score(signal.CategoryTiming, 6, 2),
			score(signal.CategoryStrategy, 5, 1),
		}

		lo := verdict.Aggregate("p1", 1, base, cfg)
		hi := verdict.Aggregate("p1", 1, raised, cfg)

		So(hi.BotScore, ShouldBeGreaterThan, lo.BotScore)
	})
}

func TestAggregate_TierBoundaries(t *testing.T) {
	cfg := verdict.DefaultConfig()

	Convey("Given a composite exactly on a tier bound", t, func() {
		// One unit score of value 2 maps to exactly 20.0.
		v := verdict.Aggregate("p1", 1, []signal.Score{
			score(signal.CategoryTiming, 2, 1),
		}, cfg)

		Convey("Then the upper bound is inclusive", func() {
			So(v.BotScore, ShouldAlmostEqual, 20)
			So(v.Classification, ShouldEqual, "Human / no flag")
			So(v.RecommendedAction, ShouldEqual, "none")
		})
	})

	Convey("Given a composite just past the bound", t, func() {
		v := verdict.Aggregate("p1", 1, []signal.Score{
			score(signal.CategoryTiming, 2.000001, 1),
		}, cfg)

		Convey("Then the next tier applies", func() {
			So(v.BotScore, ShouldBeGreaterThan, 20)
			So(v.Classification, ShouldEqual, "Disciplined / passive watch")
		})
	})

	Convey("Given every tier midpoint", t, func() {
		cases := []struct {
			value          float64
			classification string
		}{
			{1.0, "Human / no flag"},
			{3.0, "Disciplined / passive watch"},
			{5.0, "Suspicious / quick review"},
			{7.0, "High risk / full audit"},
			{9.0, "Critical / auto-ban review"},
		}
		for _, c := range cases {
			v := verdict.Aggregate("p1", 1, []signal.Score{
				score(signal.CategoryTiming, c.value, 1),
			}, cfg)
			So(v.Classification, ShouldEqual, c.classification)
		}
	})
}

func TestAggregate_NeutralInclusion(t *testing.T) {
	cfg := verdict.DefaultConfig()

	Convey("Given neutral low-confidence categories alongside real ones", t, func() {
		scores := []signal.Score{
			score(signal.CategoryTiming, 10, 2),
			{Category: signal.CategoryVariance, Value: 5, Weight: 1.5, Confidence: signal.ConfidenceLow},
		}
		v := verdict.Aggregate("p1", 1, scores, cfg)

		Convey("Then neutral scores stay in the weighted sum", func() {
			// (20 + 7.5) / (10 * 3.5) * 100: excluding the neutral score
			// would have produced 100 instead.
			So(v.BotScore, ShouldAlmostEqual, 78.571428, 0.001)
		})

		Convey("Then the low-confidence categories are reported", func() {
			So(v.LowConfidence, ShouldResemble, []signal.Category{signal.CategoryVariance})
		})
	})

	Convey("Given every category neutral", t, func() {
		var scores []signal.Score
		for _, cat := range signal.Categories() {
			scores = append(scores, signal.Score{
				Category:   cat,
				Value:      signal.NeutralValue,
				Weight:     1,
				Confidence: signal.ConfidenceLow,
			})
		}
		v := verdict.Aggregate("p1", 1, scores, cfg)

		Convey("Then the composite lands exactly in the middle", func() {
			So(v.BotScore, ShouldAlmostEqual, 50)
			So(len(v.LowConfidence), ShouldEqual, len(signal.Categories()))
		})
	})
}

func TestAggregate_EvidenceOrdering(t *testing.T) {
	cfg := verdict.DefaultConfig()

	Convey("Given notable scores with different weighted contributions", t, func() {
		scores := []signal.Score{
			{Category: signal.CategoryStrategy, Value: 8, Weight: 1,
				Confidence: signal.ConfidenceNormal, Evidence: []string{"strategy evidence"}},
			{Category: signal.CategoryTiming, Value: 9, Weight: 2,
				Confidence: signal.ConfidenceNormal, Evidence: []string{"timing evidence"}},
			{Category: signal.CategoryBetSizing, Value: 3, Weight: 1,
				Confidence: signal.ConfidenceNormal, Evidence: []string{"sizing evidence"}},
		}
		v := verdict.Aggregate("p1", 1, scores, cfg)

		Convey("Then evidence is ordered by weighted contribution descending", func() {
			So(v.Evidence, ShouldResemble, []string{"timing evidence", "strategy evidence"})
		})

		Convey("Then sub-floor scores contribute no evidence", func() {
			So(v.Evidence, ShouldNotContain, "sizing evidence")
		})
	})

	Convey("Given equal weighted contributions", t, func() {
		scores := []signal.Score{
			{Category: signal.CategoryVariance, Value: 8, Weight: 1,
				Confidence: signal.ConfidenceNormal, Evidence: []string{"variance evidence"}},
			{Category: signal.CategorySession, Value: 8, Weight: 1,
				Confidence: signal.ConfidenceNormal, Evidence: []string{"session evidence"}},
		}
		v := verdict.Aggregate("p1", 1, scores, cfg)

		Convey("Then ties break on category name for determinism", func() {
			So(v.Evidence, ShouldResemble, []string{"session evidence", "variance evidence"})
		})
	})

	Convey("Given a custom notable floor", t, func() {
		custom := cfg
		custom.NotableFloors = map[string]float64{
			string(signal.CategoryBetSizing): 3,
		}
		scores := []signal.Score{
			{Category: signal.CategoryBetSizing, Value: 3, Weight: 1,
				Confidence: signal.ConfidenceNormal, Evidence: []string{"sizing evidence"}},
		}
		v := verdict.Aggregate("p1", 1, scores, custom)

		Convey("Then the per-category floor overrides the default", func() {
			So(v.Evidence, ShouldResemble, []string{"sizing evidence"})
		})
	})
}

func TestClassify_LastTierCatchesAll(t *testing.T) {
	Convey("Given a score above every bound", t, func() {
		tiers := []verdict.Tier{
			{Max: 50, Classification: "low", Action: "none"},
			{Max: 100, Classification: "high", Action: "review"},
		}

		Convey("Then the final tier catches it", func() {
			So(verdict.Classify(200, tiers).Classification, ShouldEqual, "high")
		})
	})
}

func TestAggregate_WeightMonotonicity(t *testing.T) {
	cfg := verdict.DefaultConfig()

	Convey("Given one category scoring above the rest", t, func() {
		composite := func(weight float64) float64 {
			v := verdict.Aggregate("p1", 1, []signal.Score{
				score(signal.CategoryTiming, 9, weight),
				score(signal.CategoryStrategy, 2, 1),
				score(signal.CategoryTilt, 3, 2),
			}, cfg)
			return v.BotScore
		}

		Convey("Then raising its weight never lowers the composite", func() {
			prev := composite(1)
			for w := 2.0; w <= 10; w++ {
				next := composite(w)
				So(next, ShouldBeGreaterThanOrEqualTo, prev)
				prev = next
			}
		})

		Convey("And lowering it never raises the composite", func() {
			So(composite(0.5), ShouldBeLessThanOrEqualTo, composite(1))
		})
	})
}
