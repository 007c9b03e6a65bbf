package cluster

import (
	"math"
	"math/rand"
	"sort"
)

// Normalized axis bounds.
const (
	axisMin = 0.0
	axisMax = 100.0
)

// Run clusters the population with seeded k-means and returns the ranked
// cohort report. The input is sorted by player ID and centroids are seeded
// from a fixed-seed shuffle, so the result is deterministic and independent
// of input ordering. Populations below MinPopulation collapse to a single
// degenerate cluster instead of erroring.
func Run(points []Point, cfg Config) []Cluster {
	if len(points) == 0 {
		return nil
	}

	// Work on a sorted copy so callers' ordering never leaks into the result.
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].PlayerID < pts[j].PlayerID })
	normalize(pts)

	if len(pts) < cfg.MinPopulation || cfg.K <= 1 {
		return []Cluster{degenerate(pts, cfg)}
	}

	k := cfg.K
	if k > len(pts) {
		k = len(pts)
	}

	centroids := seedCentroids(pts, k, cfg.Seed)
	assignments := make([]int, len(pts))

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		changed := false
		for i, p := range pts {
			best := nearest(p, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		recenter(pts, assignments, centroids)
	}

	clusters := make([]Cluster, 0, k)
	for c := 0; c < k; c++ {
		var members []Point
		for i, a := range assignments {
			if a == c {
				members = append(members, pts[i])
			}
		}
		if len(members) == 0 {
			continue
		}
		mean, suspicious, level := assess(members, cfg)
		ids := make([]string, len(members))
		for i, m := range members {
			ids[i] = m.PlayerID
		}
		clusters = append(clusters, Cluster{
			Centroid:        centroids[c],
			MemberIDs:       ids,
			MeanBotScore:    mean,
			SuspiciousCount: suspicious,
			AlertLevel:      level,
		})
	}

	return sortReport(clusters)
}

// degenerate builds the single catch-all cluster for tiny populations, with
// the alert level derived from the population mean.
func degenerate(pts []Point, cfg Config) Cluster {
	mean, suspicious, level := assess(pts, cfg)
	ids := make([]string, len(pts))
	var cx, cy float64
	for i, p := range pts {
		ids[i] = p.PlayerID
		cx += p.X
		cy += p.Y
	}
	n := float64(len(pts))
	return Cluster{
		Centroid:        [2]float64{cx / n, cy / n},
		MemberIDs:       ids,
		MeanBotScore:    mean,
		SuspiciousCount: suspicious,
		AlertLevel:      level,
		Degenerate:      true,
	}
}

// normalize min-max scales both axes to [0,100] in place. A flat axis maps
// to the midpoint.
func normalize(pts []Point) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	mid := (axisMin + axisMax) / 2
	for i := range pts {
		if maxX > minX {
			pts[i].X = axisMax * (pts[i].X - minX) / (maxX - minX)
		} else {
			pts[i].X = mid
		}
		if maxY > minY {
			pts[i].Y = axisMax * (pts[i].Y - minY) / (maxY - minY)
		} else {
			pts[i].Y = mid
		}
	}
}

// seedCentroids picks k distinct starting points using the configured seed.
func seedCentroids(pts []Point, k int, seed int64) [][2]float64 {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed is the point
	perm := rng.Perm(len(pts))
	centroids := make([][2]float64, k)
	for i := 0; i < k; i++ {
		p := pts[perm[i]]
		centroids[i] = [2]float64{p.X, p.Y}
	}
	return centroids
}

// nearest returns the index of the closest centroid, preferring the lowest
// index on exact ties.
func nearest(p Point, centroids [][2]float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centroids {
		dx, dy := p.X-c[0], p.Y-c[1]
		d := dx*dx + dy*dy
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// recenter moves each centroid to the mean of its members. Empty clusters
// keep their previous centroid.
func recenter(pts []Point, assignments []int, centroids [][2]float64) {
	for c := range centroids {
		var sx, sy float64
		n := 0
		for i, a := range assignments {
			if a != c {
				continue
			}
			sx += pts[i].X
			sy += pts[i].Y
			n++
		}
		if n > 0 {
			centroids[c] = [2]float64{sx / float64(n), sy / float64(n)}
		}
	}
}
