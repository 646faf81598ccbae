// Package hypotest implements the group-comparison tests: Student and Welch
// t-tests, the paired t-test, Levene's variance pre-check and one-way ANOVA
// with pairwise post-hoc comparisons.
package hypotest

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/dataset"
	"statlab/internal/analysis/numeric"
)

// TTest compares the means of two groups of a numeric column split by a
// grouping column. Independent variants require exactly two groups; the
// paired variant additionally requires the two series to be equally long.
func TTest(ds *dataset.Dataset, valueCol, groupCol string, cfg analysis.TTestConfig) (*analysis.TTestResult, []analysis.ChartDescriptor, error) {
	groups, err := ds.GroupedNumeric(valueCol, groupCol)
	if err != nil {
		return nil, nil, core.NewColumnNotFoundError(valueCol)
	}
	if len(groups) != 2 {
		return nil, nil, fmt.Errorf("%w: t-test needs exactly 2 groups, found %d in %q",
			core.ErrInvalidGroupCount, len(groups), groupCol)
	}
	a, b := groups[0], groups[1]
	if len(a.Values) < 2 || len(b.Values) < 2 {
		return nil, nil, core.NewInsufficientDataError("each group", minInt(len(a.Values), len(b.Values)), 2)
	}
	if cfg.Variant == analysis.TTestPaired && len(a.Values) != len(b.Values) {
		return nil, nil, fmt.Errorf("%w: paired series have %d and %d observations",
			core.ErrLengthMismatch, len(a.Values), len(b.Values))
	}

	result := &analysis.TTestResult{
		Variant: cfg.Variant,
		Alpha:   cfg.Alpha,
		Groups:  []analysis.GroupSummary{summarizeGroup(a), summarizeGroup(b)},
	}

	switch cfg.Variant {
	case analysis.TTestEqualVariance:
		err = pooledTTest(a.Values, b.Values, result)
	case analysis.TTestWelch:
		err = welchTTest(a.Values, b.Values, result)
	case analysis.TTestPaired:
		err = pairedTTest(a.Values, b.Values, result)
	default:
		err = core.NewInvalidConfigError("variant", string(cfg.Variant))
	}
	if err != nil {
		return nil, nil, err
	}

	if cfg.Variant != analysis.TTestPaired {
		levene := Levene([][]float64{a.Values, b.Values}, cfg.Alpha)
		result.Levene = &levene
	}
	result.RejectNull = result.PValue < cfg.Alpha

	return result, []analysis.ChartDescriptor{groupBoxChart(valueCol, groups)}, nil
}

func pooledTTest(a, b []float64, result *analysis.TTestResult) error {
	n1, n2 := float64(len(a)), float64(len(b))
	m1, m2 := mean(a), mean(b)
	v1, v2 := sampleVariance(a, m1), sampleVariance(b, m2)

	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	if pooled == 0 {
		return core.NewDegenerateInputError("both groups", "zero variance")
	}
	se := math.Sqrt(pooled * (1/n1 + 1/n2))

	result.Statistic = (m1 - m2) / se
	result.DF = df
	result.PValue = numeric.TTestPValue(result.Statistic, df)
	result.MeanDifference = m1 - m2
	result.CohensD = (m1 - m2) / math.Sqrt(pooled)
	return nil
}

func welchTTest(a, b []float64, result *analysis.TTestResult) error {
	n1, n2 := float64(len(a)), float64(len(b))
	m1, m2 := mean(a), mean(b)
	v1, v2 := sampleVariance(a, m1), sampleVariance(b, m2)

	se2 := v1/n1 + v2/n2
	if se2 == 0 {
		return core.NewDegenerateInputError("both groups", "zero variance")
	}
	// Welch-Satterthwaite degrees of freedom
	df := se2 * se2 / (v1*v1/(n1*n1*(n1-1)) + v2*v2/(n2*n2*(n2-1)))

	result.Statistic = (m1 - m2) / math.Sqrt(se2)
	result.DF = df
	result.PValue = numeric.TTestPValue(result.Statistic, df)
	result.MeanDifference = m1 - m2

	pooled := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)
	if pooled > 0 {
		result.CohensD = (m1 - m2) / math.Sqrt(pooled)
	}
	return nil
}

func pairedTTest(a, b []float64, result *analysis.TTestResult) error {
	n := len(a)
	diffs := make([]float64, n)
	for i := range a {
		diffs[i] = a[i] - b[i]
	}
	md := mean(diffs)
	vd := sampleVariance(diffs, md)
	if vd == 0 {
		return core.NewDegenerateInputError("paired differences", "zero variance")
	}
	sd := math.Sqrt(vd)
	df := float64(n - 1)

	result.Statistic = md / (sd / math.Sqrt(float64(n)))
	result.DF = df
	result.PValue = numeric.TTestPValue(result.Statistic, df)
	result.MeanDifference = md
	result.CohensD = md / sd
	return nil
}

// Levene tests variance homogeneity across groups using median centering
// (the Brown-Forsythe variant, matching scipy's default)
func Levene(groups [][]float64, alpha float64) analysis.LeveneResult {
	k := len(groups)
	total := 0
	deviations := make([][]float64, k)
	for i, g := range groups {
		med, _ := stats.Median(g)
		devs := make([]float64, len(g))
		for j, v := range g {
			devs[j] = math.Abs(v - med)
		}
		deviations[i] = devs
		total += len(g)
	}

	var grandSum float64
	groupMeans := make([]float64, k)
	for i, devs := range deviations {
		groupMeans[i] = mean(devs)
		grandSum += groupMeans[i] * float64(len(devs))
	}
	grandMean := grandSum / float64(total)

	var between, within float64
	for i, devs := range deviations {
		ni := float64(len(devs))
		d := groupMeans[i] - grandMean
		between += ni * d * d
		for _, z := range devs {
			e := z - groupMeans[i]
			within += e * e
		}
	}

	if within == 0 || total <= k {
		return analysis.LeveneResult{Statistic: 0, PValue: 1, EqualVariance: true}
	}
	w := (float64(total-k) / float64(k-1)) * (between / within)
	p := numeric.FTestPValue(w, k-1, total-k)
	return analysis.LeveneResult{Statistic: w, PValue: p, EqualVariance: p > alpha}
}

func summarizeGroup(g dataset.Group) analysis.GroupSummary {
	m := mean(g.Values)
	return analysis.GroupSummary{
		Label:    g.Label,
		Count:    len(g.Values),
		Mean:     m,
		Variance: sampleVariance(g.Values, m),
	}
}

func groupBoxChart(valueCol string, groups []dataset.Group) analysis.ChartDescriptor {
	box := analysis.NewChart(analysis.ChartBox, valueCol+" by group")
	box.YLabel = valueCol
	for _, g := range groups {
		box.Categories = append(box.Categories, g.Label)
		box.AddSeries(g.Label, g.Values)
	}
	return box
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func sampleVariance(data []float64, mean float64) float64 {
	if len(data) < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range data {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(len(data)-1)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
