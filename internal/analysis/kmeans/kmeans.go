// Package kmeans implements Lloyd's algorithm with deterministic seeded
// initialization, explicit stop conditions and empty-cluster recovery.
package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/dataset"
	"statlab/internal/analysis/numeric"
)

// KMeans clusters the listwise-complete rows of the named numeric columns.
// Results are deterministic for a given seed under either initialization
// policy. Cancellation is checked once per iteration; a cancelled run returns
// no partial result.
func KMeans(ctx context.Context, ds *dataset.Dataset, columns []string, cfg analysis.KMeansConfig, rng *rand.Rand) (*analysis.KMeansResult, []analysis.ChartDescriptor, error) {
	if len(columns) < 1 {
		return nil, nil, core.NewInvalidConfigError("columns", "k-means needs at least 1 column")
	}
	rows, rowIdx, err := ds.CompleteRows(columns)
	if err != nil {
		return nil, nil, core.NewColumnNotFoundError(columns[0])
	}
	n := len(rows)
	if cfg.K < 1 || cfg.K > n {
		return nil, nil, core.NewInvalidConfigError("k",
			fmt.Sprintf("k=%d must be between 1 and the %d usable rows", cfg.K, n))
	}

	points, means, scales, err := preparePoints(rows, columns, cfg.Standardize)
	if err != nil {
		return nil, nil, err
	}

	centroids := initialize(points, cfg, rng)
	assignments := make([]int, n)
	iterations := 0
	stop := analysis.StopMaxIterations

	for iterations < cfg.MaxIterations {
		select {
		case <-ctx.Done():
			return nil, nil, core.ErrCancelled
		default:
		}
		iterations++

		assign(points, centroids, assignments)
		reseedEmpty(points, centroids, assignments)

		next := recompute(points, centroids, assignments, cfg.K)
		shift := maxShift(centroids, next)
		centroids = next

		if shift < cfg.Tolerance {
			stop = analysis.StopConverged
			break
		}
	}
	// Final assignment against the converged centroids
	assign(points, centroids, assignments)

	result := &analysis.KMeansResult{
		K:            cfg.K,
		Columns:      columns,
		Assignments:  assignments,
		RowIndex:     rowIdx,
		Iterations:   iterations,
		Stop:         stop,
		Standardized: cfg.Standardize,
	}

	for c := 0; c < cfg.K; c++ {
		summary := analysis.ClusterSummary{Index: c, Centroid: unscale(centroids[c], means, scales)}
		for i, a := range assignments {
			if a != c {
				continue
			}
			summary.Size++
			summary.WithinSS += numeric.EuclideanSq(points[i], centroids[c])
		}
		result.TotalWithinSS += summary.WithinSS
		result.Clusters = append(result.Clusters, summary)
	}

	return result, clusterCharts(columns, rows, result), nil
}

// preparePoints optionally standardizes each dimension, keeping the mean and
// scale so centroids can be reported on the original scale
func preparePoints(rows [][]float64, columns []string, standardize bool) (points [][]float64, means, scales []float64, err error) {
	n := len(rows)
	d := len(columns)
	means = make([]float64, d)
	scales = make([]float64, d)
	for j := range scales {
		scales[j] = 1
	}
	if standardize {
		for j := 0; j < d; j++ {
			var sum float64
			for _, row := range rows {
				sum += row[j]
			}
			means[j] = sum / float64(n)
			var ss float64
			for _, row := range rows {
				dv := row[j] - means[j]
				ss += dv * dv
			}
			if n > 1 {
				scales[j] = math.Sqrt(ss / float64(n-1))
			}
			if scales[j] == 0 {
				return nil, nil, nil, core.NewDegenerateInputError(fmt.Sprintf("column %q", columns[j]), "zero variance")
			}
		}
	}
	points = make([][]float64, n)
	for i, row := range rows {
		pt := make([]float64, d)
		for j, v := range row {
			pt[j] = (v - means[j]) / scales[j]
		}
		points[i] = pt
	}
	return points, means, scales, nil
}

// initialize seeds k centroids: distinct random points, or farthest-first
// (a random start, then repeatedly the point farthest from all chosen ones)
func initialize(points [][]float64, cfg analysis.KMeansConfig, rng *rand.Rand) [][]float64 {
	n := len(points)
	centroids := make([][]float64, 0, cfg.K)

	if cfg.Init == analysis.InitRandomSeeded {
		perm := rng.Perm(n)
		for _, idx := range perm[:cfg.K] {
			centroids = append(centroids, clonePoint(points[idx]))
		}
		return centroids
	}

	// farthest-first
	first := rng.Intn(n)
	centroids = append(centroids, clonePoint(points[first]))
	for len(centroids) < cfg.K {
		bestIdx, bestDist := -1, -1.0
		for i, pt := range points {
			d := nearestDistSq(pt, centroids)
			if d > bestDist {
				bestDist, bestIdx = d, i
			}
		}
		centroids = append(centroids, clonePoint(points[bestIdx]))
	}
	return centroids
}

// assign maps each point to its nearest centroid, ties to the lowest index
func assign(points, centroids [][]float64, assignments []int) {
	for i, pt := range points {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := numeric.EuclideanSq(pt, centroid); d < bestDist {
				best, bestDist = c, d
			}
		}
		assignments[i] = best
	}
}

// reseedEmpty relocates any centroid that attracted no points to the point
// farthest from its current nearest centroid, then reassigns
func reseedEmpty(points, centroids [][]float64, assignments []int) {
	counts := make([]int, len(centroids))
	for _, a := range assignments {
		counts[a]++
	}
	reassign := false
	for c, count := range counts {
		if count > 0 {
			continue
		}
		bestIdx, bestDist := -1, -1.0
		for i, pt := range points {
			if d := nearestDistSq(pt, centroids); d > bestDist {
				bestDist, bestIdx = d, i
			}
		}
		centroids[c] = clonePoint(points[bestIdx])
		reassign = true
	}
	if reassign {
		assign(points, centroids, assignments)
	}
}

func recompute(points, centroids [][]float64, assignments []int, k int) [][]float64 {
	d := len(points[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, d)
	}
	for i, pt := range points {
		c := assignments[i]
		counts[c]++
		for j, v := range pt {
			sums[c][j] += v
		}
	}
	next := make([][]float64, k)
	for c := range sums {
		if counts[c] == 0 {
			// reseedEmpty runs before recompute, so this only guards
			// pathological duplicate data; keep the old centroid
			next[c] = clonePoint(centroids[c])
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
		next[c] = sums[c]
	}
	return next
}

// maxShift returns the largest coordinate-wise centroid movement
func maxShift(old, next [][]float64) float64 {
	shift := 0.0
	for c := range old {
		for j := range old[c] {
			if d := math.Abs(next[c][j] - old[c][j]); d > shift {
				shift = d
			}
		}
	}
	return shift
}

func nearestDistSq(pt []float64, centroids [][]float64) float64 {
	best := math.Inf(1)
	for _, c := range centroids {
		if d := numeric.EuclideanSq(pt, c); d < best {
			best = d
		}
	}
	return best
}

func clonePoint(pt []float64) []float64 {
	out := make([]float64, len(pt))
	copy(out, pt)
	return out
}

func unscale(centroid, means, scales []float64) []float64 {
	out := make([]float64, len(centroid))
	for j, v := range centroid {
		out[j] = v*scales[j] + means[j]
	}
	return out
}

func clusterCharts(columns []string, rows [][]float64, result *analysis.KMeansResult) []analysis.ChartDescriptor {
	scatter := analysis.NewChart(analysis.ChartScatter, fmt.Sprintf("k-means clusters (k=%d)", result.K))
	scatter.XLabel = columns[0]
	if len(columns) > 1 {
		scatter.YLabel = columns[1]
	}
	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	labels := make([]float64, len(rows))
	for i, row := range rows {
		xs[i] = row[0]
		if len(row) > 1 {
			ys[i] = row[1]
		}
		labels[i] = float64(result.Assignments[i])
	}
	scatter.AddSeries("x", xs)
	scatter.AddSeries("y", ys)
	scatter.AddSeries("cluster", labels)
	return []analysis.ChartDescriptor{scatter}
}
