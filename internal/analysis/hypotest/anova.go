package hypotest

import (
	"fmt"
	"math"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/dataset"
	"statlab/internal/analysis/numeric"
)

// Anova runs a one-way analysis of variance of a numeric column across the
// groups of a grouping column. Requires at least two groups, each with at
// least two observations.
func Anova(ds *dataset.Dataset, valueCol, groupCol string, cfg analysis.AnovaConfig) (*analysis.AnovaResult, []analysis.ChartDescriptor, error) {
	groups, err := ds.GroupedNumeric(valueCol, groupCol)
	if err != nil {
		return nil, nil, core.NewColumnNotFoundError(valueCol)
	}
	if len(groups) < 2 {
		return nil, nil, fmt.Errorf("%w: ANOVA needs at least 2 groups, found %d in %q",
			core.ErrInvalidGroupCount, len(groups), groupCol)
	}
	for _, g := range groups {
		if len(g.Values) < 2 {
			return nil, nil, core.NewInsufficientDataError(fmt.Sprintf("group %q", g.Label), len(g.Values), 2)
		}
	}

	k := len(groups)
	total := 0
	var grandSum float64
	summaries := make([]analysis.GroupSummary, k)
	values := make([][]float64, k)
	for i, g := range groups {
		summaries[i] = summarizeGroup(g)
		values[i] = g.Values
		total += len(g.Values)
		grandSum += summaries[i].Mean * float64(len(g.Values))
	}
	grandMean := grandSum / float64(total)

	var ssBetween, ssWithin float64
	for i, g := range groups {
		ni := float64(len(g.Values))
		d := summaries[i].Mean - grandMean
		ssBetween += ni * d * d
		for _, v := range g.Values {
			e := v - summaries[i].Mean
			ssWithin += e * e
		}
	}

	dfBetween := k - 1
	dfWithin := total - k
	if ssWithin == 0 {
		return nil, nil, core.NewDegenerateInputError("within-group variation", "zero variance in every group")
	}
	msBetween := ssBetween / float64(dfBetween)
	msWithin := ssWithin / float64(dfWithin)
	f := msBetween / msWithin

	result := &analysis.AnovaResult{
		Groups:     summaries,
		SSBetween:  ssBetween,
		SSWithin:   ssWithin,
		DFBetween:  dfBetween,
		DFWithin:   dfWithin,
		FStatistic: f,
		PValue:     numeric.FTestPValue(f, dfBetween, dfWithin),
		Alpha:      cfg.Alpha,
		EtaSquared: ssBetween / (ssBetween + ssWithin),
	}
	result.RejectNull = result.PValue < cfg.Alpha

	levene := Levene(values, cfg.Alpha)
	result.Levene = &levene

	if result.RejectNull {
		result.PostHoc = tukeyHSD(summaries, msWithin, dfWithin, cfg.Alpha)
	}

	return result, []analysis.ChartDescriptor{groupBoxChart(valueCol, groups), groupMeansChart(valueCol, summaries)}, nil
}

// tukeyHSD runs Tukey-Kramer pairwise comparisons on the group means.
// The q statistic uses the standard pooled-MSW form; significance is decided
// by a Bonferroni-adjusted t approximation (q = sqrt(2)*t), since no
// studentized-range distribution is available in the stack. The approximation
// is slightly conservative.
func tukeyHSD(groups []analysis.GroupSummary, msWithin float64, dfWithin int, alpha float64) []analysis.TukeyComparison {
	k := len(groups)
	pairs := k * (k - 1) / 2
	adjusted := alpha / float64(pairs)

	var out []analysis.TukeyComparison
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			a, b := groups[i], groups[j]
			diff := a.Mean - b.Mean
			se := math.Sqrt((msWithin / 2) * (1/float64(a.Count) + 1/float64(b.Count)))
			q := math.Abs(diff) / se
			t := q / math.Sqrt2
			p := numeric.TTestPValue(t, float64(dfWithin))
			out = append(out, analysis.TukeyComparison{
				GroupA:      a.Label,
				GroupB:      b.Label,
				MeanDiff:    diff,
				QStatistic:  q,
				Significant: p < adjusted,
			})
		}
	}
	return out
}

func groupMeansChart(valueCol string, groups []analysis.GroupSummary) analysis.ChartDescriptor {
	bar := analysis.NewChart(analysis.ChartBar, "Mean "+valueCol+" by group")
	bar.YLabel = "mean " + valueCol
	means := make([]float64, len(groups))
	for i, g := range groups {
		bar.Categories = append(bar.Categories, g.Label)
		means[i] = g.Mean
	}
	bar.AddSeries("mean", means)
	return bar
}
