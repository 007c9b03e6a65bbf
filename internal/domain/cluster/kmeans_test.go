package cluster_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/felthound/felthound/internal/domain/cluster"
	. "github.com/smartystreets/goconvey/convey"
)

// twoCohorts builds a clearly separated population: a loose human blob and a
// tight high-score machine blob.
func twoCohorts() []cluster.Point {
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // fixed seed for reproducibility
	var points []cluster.Point
	for i := 0; i < 20; i++ {
		points = append(points, cluster.Point{
			PlayerID: fmt.Sprintf("human-%02d", i),
			X:        0.55 + rng.Float64()*0.1,
			Y:        45 + rng.Float64()*5,
			BotScore: 10 + rng.Float64()*20,
		})
	}
	for i := 0; i < 10; i++ {
		points = append(points, cluster.Point{
			PlayerID: fmt.Sprintf("bot-%02d", i),
			X:        0.95,
			Y:        58,
			BotScore: 85,
		})
	}
	return points
}

func TestRun_RecoversCohorts(t *testing.T) {
	cfg := cluster.DefaultConfig()
	cfg.K = 2

	Convey("Given two well-separated cohorts", t, func() {
		clusters := cluster.Run(twoCohorts(), cfg)

		Convey("Then two clusters come back and no member is lost", func() {
			So(len(clusters), ShouldEqual, 2)
			total := 0
			for _, c := range clusters {
				total += len(c.MemberIDs)
			}
			So(total, ShouldEqual, 30)
		})

		Convey("Then the machine blob is isolated and flagged high", func() {
			first := clusters[0]
			So(first.AlertLevel, ShouldEqual, cluster.AlertHigh)
			So(len(first.MemberIDs), ShouldEqual, 10)
			So(first.SuspiciousCount, ShouldEqual, 10)
			So(first.MeanBotScore, ShouldAlmostEqual, 85)
			for _, id := range first.MemberIDs {
				So(id, ShouldStartWith, "bot-")
			}
		})

		Convey("Then the human blob stays low alert", func() {
			So(clusters[1].AlertLevel, ShouldEqual, cluster.AlertLow)
			So(clusters[1].SuspiciousCount, ShouldEqual, 0)
		})

		Convey("Then report IDs are renumbered in rank order", func() {
			for i, c := range clusters {
				So(c.ID, ShouldEqual, i)
			}
		})
	})
}

func TestRun_Deterministic(t *testing.T) {
	cfg := cluster.DefaultConfig()
	cfg.K = 2

	Convey("Given the same population in two different orders", t, func() {
		a := twoCohorts()
		b := twoCohorts()
		rng := rand.New(rand.NewSource(99)) //nolint:gosec // shuffle order only
		rng.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })

		Convey("Then the cohort reports are identical", func() {
			So(cluster.Run(b, cfg), ShouldResemble, cluster.Run(a, cfg))
		})
	})

	Convey("Given repeated runs over the same input", t, func() {
		pts := twoCohorts()

		Convey("Then the result never changes", func() {
			first := cluster.Run(pts, cfg)
			for i := 0; i < 5; i++ {
				So(cluster.Run(pts, cfg), ShouldResemble, first)
			}
		})
	})
}

func TestRun_SmallPopulations(t *testing.T) {
	cfg := cluster.DefaultConfig()

	Convey("Given an empty population", t, func() {
		So(cluster.Run(nil, cfg), ShouldBeNil)
	})

	Convey("Given a population below the clustering floor", t, func() {
		pts := []cluster.Point{
			{PlayerID: "a", X: 1, Y: 1, BotScore: 90},
			{PlayerID: "b", X: 2, Y: 2, BotScore: 80},
			{PlayerID: "c", X: 3, Y: 3, BotScore: 10},
		}
		clusters := cluster.Run(pts, cfg)

		Convey("Then a single degenerate cluster covers everyone", func() {
			So(len(clusters), ShouldEqual, 1)
			So(clusters[0].Degenerate, ShouldBeTrue)
			So(clusters[0].MemberIDs, ShouldResemble, []string{"a", "b", "c"})
		})

		Convey("Then its alert level still reflects the scores", func() {
			So(clusters[0].MeanBotScore, ShouldAlmostEqual, 60)
			So(clusters[0].SuspiciousCount, ShouldEqual, 2)
			So(clusters[0].AlertLevel, ShouldEqual, cluster.AlertHigh)
		})
	})

	Convey("Given k larger than the population", t, func() {
		small := cluster.Config{
			K:                  10,
			MaxIterations:      50,
			Seed:               42,
			MinPopulation:      2,
			SuspiciousScore:    50,
			HighMeanScore:      60,
			HighSuspiciousFrac: 0.3,
			MediumMeanScore:    40,
		}
		pts := []cluster.Point{
			{PlayerID: "a", X: 0, Y: 0, BotScore: 5},
			{PlayerID: "b", X: 10, Y: 10, BotScore: 5},
			{PlayerID: "c", X: 20, Y: 20, BotScore: 5},
		}

		Convey("Then k collapses to the population size without panicking", func() {
			clusters := cluster.Run(pts, small)
			total := 0
			for _, c := range clusters {
				total += len(c.MemberIDs)
			}
			So(total, ShouldEqual, 3)
		})
	})
}

func TestRun_FlatAxis(t *testing.T) {
	Convey("Given a population with zero spread on one axis", t, func() {
		cfg := cluster.DefaultConfig()
		cfg.K = 2
		cfg.MinPopulation = 4

		pts := []cluster.Point{
			{PlayerID: "a", X: 0.5, Y: 10, BotScore: 10},
			{PlayerID: "b", X: 0.5, Y: 20, BotScore: 10},
			{PlayerID: "c", X: 0.5, Y: 80, BotScore: 10},
			{PlayerID: "d", X: 0.5, Y: 90, BotScore: 10},
		}

		Convey("Then clustering still works on the remaining axis", func() {
			clusters := cluster.Run(pts, cfg)
			total := 0
			for _, c := range clusters {
				total += len(c.MemberIDs)
			}
			So(total, ShouldEqual, 4)
		})
	})
}

func TestAlertLevels(t *testing.T) {
	cfg := cluster.DefaultConfig()
	cfg.K = 1
	cfg.MinPopulation = 2

	level := func(scores ...float64) cluster.AlertLevel {
		var pts []cluster.Point
		for i, s := range scores {
			pts = append(pts, cluster.Point{
				PlayerID: fmt.Sprintf("p-%02d", i),
				X:        float64(i),
				Y:        float64(i),
				BotScore: s,
			})
		}
		return cluster.Run(pts, cfg)[0].AlertLevel
	}

	Convey("Given cohorts with different score profiles", t, func() {
		Convey("Then a high mean triggers a high alert", func() {
			So(level(70, 70, 70), ShouldEqual, cluster.AlertHigh)
		})

		Convey("Then a suspicious fraction above the cap also triggers high", func() {
			// Mean 32 stays under the mean gates; 1 of 3 over 50 is enough.
			So(level(90, 3, 3), ShouldEqual, cluster.AlertHigh)
		})

		Convey("Then a moderately elevated mean is medium", func() {
			So(level(45, 45, 45), ShouldEqual, cluster.AlertMedium)
		})

		Convey("Then an unremarkable cohort is low", func() {
			So(level(10, 20, 30), ShouldEqual, cluster.AlertLow)
		})
	})
}
