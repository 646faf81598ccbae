// Package regress fits ordinary least squares models with full coefficient
// inference. The normal equations are solved through a Cholesky factorization
// of X'X, whose failure is exactly the rank-deficiency signal the engine
// reports as a singular design.
package regress

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/dataset"
	"statlab/internal/analysis/numeric"
)

// Regress fits dependent ~ independents over the listwise-complete rows.
// An intercept is included unless suppressed by configuration.
func Regress(ds *dataset.Dataset, dependent string, independents []string, cfg analysis.RegressionConfig) (*analysis.RegressionResult, []analysis.ChartDescriptor, error) {
	if len(independents) == 0 {
		return nil, nil, core.NewInvalidConfigError("independents", "regression needs at least one predictor")
	}
	names := append([]string{dependent}, independents...)
	rows, _, err := ds.CompleteRows(names)
	if err != nil {
		return nil, nil, core.NewColumnNotFoundError(dependent)
	}

	n := len(rows)
	p := len(independents)
	if cfg.Intercept {
		p++
	}
	if n < p {
		return nil, nil, core.ErrSingularDesign
	}
	dfResidual := n - p
	if dfResidual < 1 {
		return nil, nil, core.NewInsufficientDataError("residual degrees of freedom", dfResidual, 1)
	}

	// Assemble the design matrix, intercept column first
	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, row := range rows {
		y.SetVec(i, row[0])
		col := 0
		if cfg.Intercept {
			X.Set(i, 0, 1)
			col = 1
		}
		for j := 0; j < len(independents); j++ {
			X.Set(i, col+j, row[j+1])
		}
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, nil, core.ErrSingularDesign
	}

	xty := mat.NewVecDense(p, nil)
	xty.MulVec(X.T(), y)

	beta := mat.NewVecDense(p, nil)
	if err := chol.SolveVecTo(beta, xty); err != nil {
		return nil, nil, core.ErrSingularDesign
	}

	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(X, beta)

	residuals := make([]float64, n)
	fittedVals := make([]float64, n)
	var sse float64
	for i := 0; i < n; i++ {
		fittedVals[i] = fitted.AtVec(i)
		residuals[i] = y.AtVec(i) - fittedVals[i]
		sse += residuals[i] * residuals[i]
	}

	// Total sum of squares: centered with an intercept, raw without
	var sst float64
	if cfg.Intercept {
		meanY := mat.Sum(y) / float64(n)
		for i := 0; i < n; i++ {
			d := y.AtVec(i) - meanY
			sst += d * d
		}
	} else {
		for i := 0; i < n; i++ {
			sst += y.AtVec(i) * y.AtVec(i)
		}
	}
	if sst == 0 {
		return nil, nil, core.NewDegenerateInputError("dependent variable", "zero variance")
	}

	rSquared := 1 - sse/sst
	dfModel := p
	if cfg.Intercept {
		dfModel = p - 1
	}
	if dfModel < 1 {
		return nil, nil, core.NewInvalidConfigError("independents", "model has no predictors")
	}
	adjRSquared := 1 - (1-rSquared)*float64(n-1)/float64(dfResidual)

	sigma2 := sse / float64(dfResidual)
	var xtxInv mat.SymDense
	if err := chol.InverseTo(&xtxInv); err != nil {
		return nil, nil, core.ErrSingularDesign
	}

	coefNames := make([]string, 0, p)
	if cfg.Intercept {
		coefNames = append(coefNames, "(intercept)")
	}
	coefNames = append(coefNames, independents...)

	coefficients := make([]analysis.Coefficient, p)
	for j := 0; j < p; j++ {
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		est := beta.AtVec(j)
		var t, pv float64
		if se > 0 {
			t = est / se
			pv = numeric.TTestPValue(t, float64(dfResidual))
		}
		coefficients[j] = analysis.Coefficient{
			Name:       coefNames[j],
			Estimate:   est,
			StdError:   se,
			TStatistic: t,
			PValue:     pv,
		}
	}

	fStat := (rSquared / float64(dfModel)) / ((1 - rSquared) / float64(dfResidual))
	result := &analysis.RegressionResult{
		Dependent:    dependent,
		Coefficients: coefficients,
		RSquared:     rSquared,
		AdjRSquared:  adjRSquared,
		FStatistic:   fStat,
		FPValue:      numeric.FTestPValue(fStat, dfModel, dfResidual),
		DFModel:      dfModel,
		DFResidual:   dfResidual,
		Observations: n,
		Fitted:       fittedVals,
		Residuals:    residuals,
	}

	return result, regressionCharts(dependent, independents, rows, result), nil
}

func regressionCharts(dependent string, independents []string, rows [][]float64, result *analysis.RegressionResult) []analysis.ChartDescriptor {
	var charts []analysis.ChartDescriptor

	if len(independents) == 1 {
		fit := analysis.NewChart(analysis.ChartScatter, dependent+" vs "+independents[0])
		fit.XLabel = independents[0]
		fit.YLabel = dependent
		xs := make([]float64, len(rows))
		ys := make([]float64, len(rows))
		for i, row := range rows {
			ys[i] = row[0]
			xs[i] = row[1]
		}
		fit.AddSeries(independents[0], xs)
		fit.AddSeries(dependent, ys)
		fit.AddSeries("fitted", result.Fitted)
		charts = append(charts, fit)
	}

	resid := analysis.NewChart(analysis.ChartScatter, "Residuals vs fitted")
	resid.XLabel = "fitted"
	resid.YLabel = "residual"
	resid.AddSeries("fitted", result.Fitted)
	resid.AddSeries("residual", result.Residuals)
	charts = append(charts, resid)

	return charts
}
