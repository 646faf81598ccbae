// Package correlate computes Pearson and Spearman correlation matrices.
// Cells are pairwise-complete: each coefficient uses only the rows where both
// columns are non-missing, so the sample size varies per cell and is reported
// alongside the matrix.
package correlate

import (
	"fmt"
	"math"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/dataset"
	"statlab/internal/analysis/numeric"
)

// Correlate builds the symmetric correlation matrix over the named numeric
// columns. Spearman ranks each pairwise-complete series with average-rank
// ties, then applies the Pearson formula to the ranks.
func Correlate(ds *dataset.Dataset, columns []string, cfg analysis.CorrelationConfig) (*analysis.CorrelationResult, []analysis.ChartDescriptor, error) {
	if len(columns) < 2 {
		return nil, nil, core.NewInvalidConfigError("columns", "correlation needs at least 2 columns")
	}
	for _, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			return nil, nil, core.NewColumnNotFoundError(name)
		}
		if col.Type != dataset.Numeric {
			return nil, nil, core.NewTypeMismatchError(name, string(col.Type), string(dataset.Numeric))
		}
	}

	n := len(columns)
	result := &analysis.CorrelationResult{
		Method:      cfg.Method,
		Columns:     columns,
		Matrix:      squareFloat(n),
		PValues:     squareFloat(n),
		SampleSizes: squareInt(n),
	}

	for i := 0; i < n; i++ {
		values, err := ds.NumericValues(columns[i])
		if err != nil {
			return nil, nil, err
		}
		result.Matrix[i][i] = 1.0
		result.PValues[i][i] = 0.0
		result.SampleSizes[i][i] = len(values)

		for j := i + 1; j < n; j++ {
			x, y, err := ds.PairwiseComplete(columns[i], columns[j])
			if err != nil {
				return nil, nil, err
			}
			if len(x) < 3 {
				return nil, nil, core.NewInsufficientDataError(
					fmt.Sprintf("pair (%s, %s)", columns[i], columns[j]), len(x), 3)
			}
			if cfg.Method == analysis.Spearman {
				x = numeric.Ranks(x)
				y = numeric.Ranks(y)
			}
			r, err := pearson(x, y, columns[i], columns[j])
			if err != nil {
				return nil, nil, err
			}
			p := numeric.CorrelationPValue(r, len(x))
			result.Matrix[i][j], result.Matrix[j][i] = r, r
			result.PValues[i][j], result.PValues[j][i] = p, p
			result.SampleSizes[i][j], result.SampleSizes[j][i] = len(x), len(x)
		}
	}

	charts := []analysis.ChartDescriptor{heatmap(result)}
	if n == 2 {
		charts = append(charts, pairScatter(ds, columns[0], columns[1]))
	}
	return result, charts, nil
}

// pearson computes the product-moment coefficient, clamped to [-1, 1]
func pearson(x, y []float64, nameX, nameY string) (float64, error) {
	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 {
		return 0, core.NewDegenerateInputError(fmt.Sprintf("column %q", nameX), "zero variance")
	}
	if varY == 0 {
		return 0, core.NewDegenerateInputError(fmt.Sprintf("column %q", nameY), "zero variance")
	}
	r := cov / math.Sqrt(varX*varY)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, nil
}

func heatmap(result *analysis.CorrelationResult) analysis.ChartDescriptor {
	chart := analysis.NewChart(analysis.ChartHeatmap, fmt.Sprintf("%s correlation matrix", result.Method))
	chart.Categories = result.Columns
	for i, name := range result.Columns {
		row := make([]float64, len(result.Columns))
		copy(row, result.Matrix[i])
		chart.AddSeries(name, row)
	}
	return chart
}

func pairScatter(ds *dataset.Dataset, a, b string) analysis.ChartDescriptor {
	x, y, _ := ds.PairwiseComplete(a, b)
	chart := analysis.NewChart(analysis.ChartScatter, a+" vs "+b)
	chart.XLabel = a
	chart.YLabel = b
	chart.AddSeries(a, x)
	chart.AddSeries(b, y)
	return chart
}

func squareFloat(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func squareInt(n int) [][]int {
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}
