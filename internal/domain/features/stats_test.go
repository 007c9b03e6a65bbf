package features_test

import (
	"math"
	"testing"

	"github.com/felthound/felthound/internal/domain/features"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMean(t *testing.T) {
	Convey("Given a series of values", t, func() {
		Convey("Then the mean of an empty series is zero", func() {
			So(features.Mean(nil), ShouldEqual, 0)
		})

		Convey("Then the mean of a simple series is correct", func() {
			So(features.Mean([]float64{2, 4, 6}), ShouldEqual, 4)
		})
	})
}

func TestStdDevAndVariance(t *testing.T) {
	Convey("Given a series of values", t, func() {
		Convey("Then a constant series has zero deviation", func() {
			So(features.StdDev([]float64{5, 5, 5}), ShouldEqual, 0)
			So(features.Variance([]float64{5, 5, 5}), ShouldEqual, 0)
		})

		Convey("Then the population deviation is computed", func() {
			So(features.StdDev([]float64{2, 4}), ShouldEqual, 1)
			So(features.Variance([]float64{2, 4}), ShouldEqual, 1)
		})

		Convey("Then an empty series yields zero", func() {
			So(features.StdDev(nil), ShouldEqual, 0)
		})
	})
}

func TestCoefficientOfVariation(t *testing.T) {
	Convey("Given a series of values", t, func() {
		Convey("Then CV is stddev over mean", func() {
			So(features.CoefficientOfVariation([]float64{90, 110}), ShouldAlmostEqual, 0.1)
		})

		Convey("Then a zero mean yields zero instead of dividing", func() {
			So(features.CoefficientOfVariation([]float64{-1, 1}), ShouldEqual, 0)
		})

		Convey("Then identical values yield zero", func() {
			So(features.CoefficientOfVariation([]float64{240, 240, 240}), ShouldEqual, 0)
		})
	})
}

func TestShannonEntropy(t *testing.T) {
	Convey("Given an hourly activity histogram", t, func() {
		Convey("Then all activity in one bucket has zero entropy", func() {
			counts := make([]int, 24)
			counts[3] = 500
			So(features.ShannonEntropy(counts), ShouldEqual, 0)
		})

		Convey("Then uniform activity reaches log2 of the bucket count", func() {
			counts := make([]int, 24)
			for i := range counts {
				counts[i] = 10
			}
			So(features.ShannonEntropy(counts), ShouldAlmostEqual, math.Log2(24))
		})

		Convey("Then an empty histogram has zero entropy", func() {
			So(features.ShannonEntropy(make([]int, 24)), ShouldEqual, 0)
		})
	})
}
