// Package describe computes per-column summary statistics: moments and
// order statistics for numeric columns, frequency tables for categorical ones.
package describe

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/dataset"
	"statlab/internal/analysis/numeric"
)

// Describe summarizes the named columns of a Dataset. Numeric columns with
// fewer than two non-missing values have their spread statistics reported as
// undefined via the Degenerate flag; a column with zero usable values fails
// the whole request.
func Describe(ds *dataset.Dataset, columns []string) (*analysis.DescriptiveResult, []analysis.ChartDescriptor, error) {
	if len(columns) == 0 {
		columns = ds.Names()
	}
	result := &analysis.DescriptiveResult{}
	var charts []analysis.ChartDescriptor

	for _, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			return nil, nil, core.NewColumnNotFoundError(name)
		}
		if col.Type == dataset.Numeric {
			summary, err := summarize(ds, name)
			if err != nil {
				return nil, nil, err
			}
			result.Summaries = append(result.Summaries, summary)
			charts = append(charts, numericCharts(ds, name)...)
			continue
		}
		table := frequencies(col)
		result.Frequencies = append(result.Frequencies, table)
		charts = append(charts, frequencyChart(table))
	}
	return result, charts, nil
}

func summarize(ds *dataset.Dataset, name string) (analysis.ColumnSummary, error) {
	values, err := ds.NumericValues(name)
	if err != nil {
		return analysis.ColumnSummary{}, core.NewColumnNotFoundError(name)
	}
	if len(values) == 0 {
		return analysis.ColumnSummary{}, core.NewInsufficientDataError(fmt.Sprintf("column %q", name), 0, 1)
	}

	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	summary := analysis.ColumnSummary{
		Column: name,
		Count:  len(values),
		Mean:   mean,
		Min:    min,
		Max:    max,
		Q1:     numeric.Quantile(values, 0.25),
		Median: numeric.Quantile(values, 0.50),
		Q3:     numeric.Quantile(values, 0.75),
	}

	if len(values) < 2 {
		// Sample variance needs n-1 > 0; report spread as undefined, not zero.
		summary.Degenerate = true
		return summary, nil
	}

	variance, err := stats.SampleVariance(values)
	if err != nil {
		return analysis.ColumnSummary{}, core.NewDegenerateInputError(fmt.Sprintf("column %q", name), err.Error())
	}
	stdDev, err := stats.StandardDeviationSample(values)
	if err != nil {
		return analysis.ColumnSummary{}, core.NewDegenerateInputError(fmt.Sprintf("column %q", name), err.Error())
	}
	summary.Variance = variance
	summary.StdDev = stdDev
	summary.Skewness = numeric.Skewness(values, mean, stdDev)
	return summary, nil
}

func frequencies(col dataset.Column) analysis.FrequencyTable {
	counts := make(map[string]int)
	order := []string{}
	total := 0
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		label := v.Str
		if col.Type == dataset.Numeric {
			label = fmt.Sprintf("%g", v.Num)
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
		total++
	}
	table := analysis.FrequencyTable{Column: col.Name}
	for _, label := range order {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(counts[label]) / float64(total)
		}
		table.Counts = append(table.Counts, analysis.CategoryCount{
			Label:   label,
			Count:   counts[label],
			Percent: pct,
		})
	}
	return table
}

func numericCharts(ds *dataset.Dataset, name string) []analysis.ChartDescriptor {
	values, _ := ds.NumericValues(name)

	hist := analysis.NewChart(analysis.ChartHistogram, "Distribution of "+name)
	hist.XLabel = name
	hist.YLabel = "frequency"
	hist.AddSeries(name, values)

	box := analysis.NewChart(analysis.ChartBox, "Box plot of "+name)
	box.YLabel = name
	box.AddSeries(name, values)

	return []analysis.ChartDescriptor{hist, box}
}

func frequencyChart(table analysis.FrequencyTable) analysis.ChartDescriptor {
	bar := analysis.NewChart(analysis.ChartBar, "Frequencies of "+table.Column)
	bar.XLabel = table.Column
	bar.YLabel = "count"
	counts := make([]float64, len(table.Counts))
	for i, c := range table.Counts {
		bar.Categories = append(bar.Categories, c.Label)
		counts[i] = float64(c.Count)
	}
	bar.AddSeries("count", counts)
	return bar
}
