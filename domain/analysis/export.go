package analysis

import (
	"fmt"
)

// Fields flattens the result payload into a mapping from field name to
// scalar or array value, the shape the export collaborator consumes.
// No chart data is embedded; charts travel separately as descriptors.
func (r Result) Fields() map[string]any {
	out := map[string]any{
		"id":         r.ID.String(),
		"request_id": r.RequestID.String(),
		"kind":       string(r.Kind),
	}
	if r.Interpretation != "" {
		out["interpretation"] = r.Interpretation
	}

	switch {
	case r.Descriptive != nil:
		for _, s := range r.Descriptive.Summaries {
			prefix := s.Column + "."
			out[prefix+"count"] = s.Count
			out[prefix+"mean"] = s.Mean
			out[prefix+"min"] = s.Min
			out[prefix+"max"] = s.Max
			out[prefix+"q1"] = s.Q1
			out[prefix+"median"] = s.Median
			out[prefix+"q3"] = s.Q3
			if !s.Degenerate {
				out[prefix+"variance"] = s.Variance
				out[prefix+"std_dev"] = s.StdDev
				out[prefix+"skewness"] = s.Skewness
			}
		}
		for _, f := range r.Descriptive.Frequencies {
			for _, c := range f.Counts {
				out[fmt.Sprintf("%s.freq.%s", f.Column, c.Label)] = c.Count
			}
		}
	case r.TTest != nil:
		t := r.TTest
		out["variant"] = string(t.Variant)
		out["statistic"] = t.Statistic
		out["df"] = t.DF
		out["p_value"] = t.PValue
		out["alpha"] = t.Alpha
		out["reject_null"] = t.RejectNull
		out["mean_difference"] = t.MeanDifference
		out["cohens_d"] = t.CohensD
		exportGroups(out, t.Groups)
		if t.Levene != nil {
			out["levene_statistic"] = t.Levene.Statistic
			out["levene_p_value"] = t.Levene.PValue
		}
	case r.Anova != nil:
		a := r.Anova
		out["ss_between"] = a.SSBetween
		out["ss_within"] = a.SSWithin
		out["df_between"] = a.DFBetween
		out["df_within"] = a.DFWithin
		out["f_statistic"] = a.FStatistic
		out["p_value"] = a.PValue
		out["reject_null"] = a.RejectNull
		out["eta_squared"] = a.EtaSquared
		exportGroups(out, a.Groups)
	case r.Correlation != nil:
		c := r.Correlation
		out["method"] = string(c.Method)
		out["columns"] = c.Columns
		for i, a := range c.Columns {
			for j, b := range c.Columns {
				if j <= i {
					continue
				}
				out[fmt.Sprintf("r.%s.%s", a, b)] = c.Matrix[i][j]
				out[fmt.Sprintf("p.%s.%s", a, b)] = c.PValues[i][j]
				out[fmt.Sprintf("n.%s.%s", a, b)] = c.SampleSizes[i][j]
			}
		}
	case r.Regression != nil:
		g := r.Regression
		out["dependent"] = g.Dependent
		out["r_squared"] = g.RSquared
		out["adj_r_squared"] = g.AdjRSquared
		out["f_statistic"] = g.FStatistic
		out["f_p_value"] = g.FPValue
		out["observations"] = g.Observations
		out["residuals"] = g.Residuals
		for _, c := range g.Coefficients {
			prefix := "coef." + c.Name + "."
			out[prefix+"estimate"] = c.Estimate
			out[prefix+"std_error"] = c.StdError
			out[prefix+"t"] = c.TStatistic
			out[prefix+"p"] = c.PValue
		}
	case r.PCA != nil:
		p := r.PCA
		out["columns"] = p.Columns
		out["sample_size"] = p.SampleSize
		for i, comp := range p.Components {
			prefix := fmt.Sprintf("pc%d.", i+1)
			out[prefix+"eigenvalue"] = comp.Eigenvalue
			out[prefix+"explained_ratio"] = comp.ExplainedRatio
			out[prefix+"cumulative_ratio"] = comp.CumulativeRatio
			out[prefix+"loadings"] = comp.Loadings
		}
	case r.KMeans != nil:
		k := r.KMeans
		out["k"] = k.K
		out["iterations"] = k.Iterations
		out["stop"] = string(k.Stop)
		out["total_within_ss"] = k.TotalWithinSS
		out["assignments"] = k.Assignments
		for _, c := range k.Clusters {
			prefix := fmt.Sprintf("cluster%d.", c.Index+1)
			out[prefix+"size"] = c.Size
			out[prefix+"within_ss"] = c.WithinSS
			out[prefix+"centroid"] = c.Centroid
		}
	}
	return out
}

func exportGroups(out map[string]any, groups []GroupSummary) {
	for _, g := range groups {
		prefix := "group." + g.Label + "."
		out[prefix+"n"] = g.Count
		out[prefix+"mean"] = g.Mean
		out[prefix+"variance"] = g.Variance
	}
}
