// Package pca implements principal component analysis over numeric columns:
// standardization, eigendecomposition of the covariance (or correlation)
// matrix, and projection of rows onto the retained components.
package pca

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/dataset"
)

// PCA decomposes the listwise-complete rows of the named columns. Columns are
// standardized to zero mean and unit variance unless configured otherwise (in
// which case they are only centered, giving covariance-based PCA). Components
// come back ordered by descending eigenvalue; exact ties keep the original
// ordering.
func PCA(ctx context.Context, ds *dataset.Dataset, columns []string, cfg analysis.PCAConfig) (*analysis.PCAResult, []analysis.ChartDescriptor, error) {
	if len(columns) < 1 {
		return nil, nil, core.NewInvalidConfigError("columns", "PCA needs at least 1 column")
	}
	if cfg.Components > len(columns) {
		return nil, nil, core.NewInvalidConfigError("components",
			fmt.Sprintf("%d components requested, only %d columns selected", cfg.Components, len(columns)))
	}
	keep := cfg.Components
	if keep == 0 {
		keep = len(columns)
	}

	rows, _, err := ds.CompleteRows(columns)
	if err != nil {
		return nil, nil, core.NewColumnNotFoundError(columns[0])
	}
	n := len(rows)
	d := len(columns)
	if n < 2 {
		return nil, nil, core.NewInsufficientDataError("complete rows", n, 2)
	}

	// Center, and scale to unit variance when standardizing
	means := make([]float64, d)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}
	scales := make([]float64, d)
	for j := 0; j < d; j++ {
		scales[j] = 1
		if !cfg.Standardize {
			continue
		}
		var ss float64
		for _, row := range rows {
			dv := row[j] - means[j]
			ss += dv * dv
		}
		sd := math.Sqrt(ss / float64(n-1))
		if sd == 0 {
			return nil, nil, core.NewDegenerateInputError(fmt.Sprintf("column %q", columns[j]), "zero variance")
		}
		scales[j] = sd
	}

	Z := mat.NewDense(n, d, nil)
	for i, row := range rows {
		for j, v := range row {
			Z.Set(i, j, (v-means[j])/scales[j])
		}
	}

	// Eigendecomposition can be slow on wide data; honor cancellation first
	select {
	case <-ctx.Done():
		return nil, nil, core.ErrCancelled
	default:
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, Z, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return nil, nil, core.NewDegenerateInputError("covariance matrix", "eigendecomposition failed")
	}
	eigenvalues := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// gonum returns ascending eigenvalues; order descending with stable
	// original-index tie-break
	order := make([]int, d)
	for i := range order {
		order[i] = i
	}
	for i := 0; i < d; i++ {
		best := i
		for j := i + 1; j < d; j++ {
			if eigenvalues[order[j]] > eigenvalues[order[best]] ||
				(eigenvalues[order[j]] == eigenvalues[order[best]] && order[j] < order[best]) {
				best = j
			}
		}
		order[i], order[best] = order[best], order[i]
	}

	var totalVariance float64
	for _, ev := range eigenvalues {
		if ev > 0 {
			totalVariance += ev
		}
	}
	if totalVariance == 0 {
		return nil, nil, core.NewDegenerateInputError("covariance matrix", "zero total variance")
	}

	result := &analysis.PCAResult{
		Columns:      columns,
		Standardized: cfg.Standardize,
		SampleSize:   n,
	}

	loadings := mat.NewDense(d, keep, nil)
	cumulative := 0.0
	for c := 0; c < keep; c++ {
		idx := order[c]
		ev := eigenvalues[idx]
		if ev < 0 {
			ev = 0
		}
		vec := make([]float64, d)
		for r := 0; r < d; r++ {
			vec[r] = vectors.At(r, idx)
		}
		orientLoadings(vec)
		for r := 0; r < d; r++ {
			loadings.Set(r, c, vec[r])
		}
		ratio := ev / totalVariance
		cumulative += ratio
		result.Components = append(result.Components, analysis.PCAComponent{
			Eigenvalue:      ev,
			ExplainedRatio:  ratio,
			CumulativeRatio: cumulative,
			Loadings:        vec,
		})
	}

	var scores mat.Dense
	scores.Mul(Z, loadings)
	result.Scores = make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, keep)
		for c := 0; c < keep; c++ {
			row[c] = scores.At(i, c)
		}
		result.Scores[i] = row
	}

	return result, pcaCharts(result), nil
}

// orientLoadings fixes the arbitrary eigenvector sign so the component with
// the largest magnitude is non-negative, making output reproducible
func orientLoadings(vec []float64) {
	maxAbs, maxIdx := 0.0, 0
	for i, v := range vec {
		if math.Abs(v) > maxAbs {
			maxAbs = math.Abs(v)
			maxIdx = i
		}
	}
	if vec[maxIdx] < 0 {
		for i := range vec {
			vec[i] = -vec[i]
		}
	}
}

func pcaCharts(result *analysis.PCAResult) []analysis.ChartDescriptor {
	scree := analysis.NewChart(analysis.ChartLine, "Scree plot")
	scree.XLabel = "component"
	scree.YLabel = "explained variance ratio"
	ratios := make([]float64, len(result.Components))
	cumulative := make([]float64, len(result.Components))
	for i, c := range result.Components {
		ratios[i] = c.ExplainedRatio
		cumulative[i] = c.CumulativeRatio
	}
	scree.AddSeries("explained", ratios)
	scree.AddSeries("cumulative", cumulative)
	charts := []analysis.ChartDescriptor{scree}

	if len(result.Components) >= 2 {
		scatter := analysis.NewChart(analysis.ChartScatter, "PC1 vs PC2")
		scatter.XLabel = "PC1"
		scatter.YLabel = "PC2"
		pc1 := make([]float64, len(result.Scores))
		pc2 := make([]float64, len(result.Scores))
		for i, row := range result.Scores {
			pc1[i] = row[0]
			pc2[i] = row[1]
		}
		scatter.AddSeries("PC1", pc1)
		scatter.AddSeries("PC2", pc2)
		charts = append(charts, scatter)
	}
	return charts
}
