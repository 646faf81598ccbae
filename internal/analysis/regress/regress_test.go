package regress

import (
	"errors"
	"math"
	"testing"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/internal/testkit"
)

func interceptConfig() analysis.RegressionConfig {
	return analysis.RegressionConfig{Intercept: true, Alpha: 0.05}
}

func TestRegress_RecoversExactModel(t *testing.T) {
	ds := testkit.LinearDataset(20, 2, 3, 0, 1)

	result, charts, err := Regress(ds, "y", []string{"x"}, interceptConfig())
	if err != nil {
		t.Fatalf("regress: %v", err)
	}
	if len(result.Coefficients) != 2 {
		t.Fatalf("expected intercept and slope, got %d coefficients", len(result.Coefficients))
	}
	intercept, slope := result.Coefficients[0], result.Coefficients[1]
	if intercept.Name != "(intercept)" || slope.Name != "x" {
		t.Fatalf("unexpected coefficient names: %q, %q", intercept.Name, slope.Name)
	}
	if math.Abs(slope.Estimate-2) > 1e-6 {
		t.Fatalf("expected slope 2, got %v", slope.Estimate)
	}
	if math.Abs(intercept.Estimate-3) > 1e-6 {
		t.Fatalf("expected intercept 3, got %v", intercept.Estimate)
	}
	if math.Abs(result.RSquared-1) > 1e-9 {
		t.Fatalf("noiseless fit should have R^2=1, got %v", result.RSquared)
	}
	for i, r := range result.Residuals {
		if math.Abs(r) > 1e-6 {
			t.Fatalf("residual %d should vanish, got %v", i, r)
		}
	}
	if len(charts) != 2 {
		t.Fatalf("simple regression should emit fit and residual charts, got %d", len(charts))
	}
}

func TestRegress_NoisyFitInference(t *testing.T) {
	ds := testkit.LinearDataset(50, 1.5, -2, 0.5, 7)

	result, _, err := Regress(ds, "y", []string{"x"}, interceptConfig())
	if err != nil {
		t.Fatalf("regress: %v", err)
	}
	slope := result.Coefficients[1]
	if math.Abs(slope.Estimate-1.5) > 0.1 {
		t.Fatalf("slope estimate too far from 1.5: %v", slope.Estimate)
	}
	if slope.StdError <= 0 {
		t.Fatalf("noisy fit needs a positive standard error, got %v", slope.StdError)
	}
	if slope.PValue >= 0.001 {
		t.Fatalf("strong linear signal should be highly significant, got p=%v", slope.PValue)
	}
	if result.RSquared <= 0.9 || result.RSquared >= 1 {
		t.Fatalf("unexpected R^2 for small-noise fit: %v", result.RSquared)
	}
	if result.AdjRSquared >= result.RSquared {
		t.Fatalf("adjusted R^2 %v should sit below R^2 %v", result.AdjRSquared, result.RSquared)
	}
	if result.DFModel != 1 || result.DFResidual != 48 {
		t.Fatalf("expected df (1,48), got (%d,%d)", result.DFModel, result.DFResidual)
	}
	if result.FPValue >= 0.001 {
		t.Fatalf("overall F should be significant, got p=%v", result.FPValue)
	}
}

func TestRegress_MultiplePredictors(t *testing.T) {
	x1 := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	x2 := []float64{2, 1, 4, 3, 6, 5, 8, 7}
	y := make([]float64, len(x1))
	for i := range y {
		y[i] = 3*x1[i] - 2*x2[i] + 5
	}
	ds := testkit.MustDataset(
		testkit.NumericColumn("y", y...),
		testkit.NumericColumn("x1", x1...),
		testkit.NumericColumn("x2", x2...),
	)

	result, _, err := Regress(ds, "y", []string{"x1", "x2"}, interceptConfig())
	if err != nil {
		t.Fatalf("regress: %v", err)
	}
	want := []float64{5, 3, -2}
	for i, coef := range result.Coefficients {
		if math.Abs(coef.Estimate-want[i]) > 1e-6 {
			t.Fatalf("coefficient %s: got %v, want %v", coef.Name, coef.Estimate, want[i])
		}
	}
}

func TestRegress_NoIntercept(t *testing.T) {
	ds := testkit.LinearDataset(10, 4, 0, 0, 3)
	result, _, err := Regress(ds, "y", []string{"x"},
		analysis.RegressionConfig{Intercept: false, Alpha: 0.05})
	if err != nil {
		t.Fatalf("regress: %v", err)
	}
	if len(result.Coefficients) != 1 || result.Coefficients[0].Name != "x" {
		t.Fatalf("expected single slope coefficient, got %+v", result.Coefficients)
	}
	if math.Abs(result.Coefficients[0].Estimate-4) > 1e-6 {
		t.Fatalf("expected slope 4, got %v", result.Coefficients[0].Estimate)
	}
}

func TestRegress_CollinearPredictorsAreSingular(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	double := make([]float64, len(x))
	y := make([]float64, len(x))
	for i := range x {
		double[i] = 2 * x[i]
		y[i] = x[i] + 1
	}
	ds := testkit.MustDataset(
		testkit.NumericColumn("y", y...),
		testkit.NumericColumn("x1", x...),
		testkit.NumericColumn("x2", double...),
	)

	_, _, err := Regress(ds, "y", []string{"x1", "x2"}, interceptConfig())
	if !errors.Is(err, core.ErrSingularDesign) {
		t.Fatalf("expected ErrSingularDesign for collinear predictors, got %v", err)
	}
}

func TestRegress_MorePredictorsThanRows(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumn("y", 1, 2),
		testkit.NumericColumn("x1", 3, 4),
		testkit.NumericColumn("x2", 5, 7),
	)
	_, _, err := Regress(ds, "y", []string{"x1", "x2"}, interceptConfig())
	if !errors.Is(err, core.ErrSingularDesign) {
		t.Fatalf("expected ErrSingularDesign when n < p, got %v", err)
	}
}

func TestRegress_ListwiseDeletion(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumnNA("y", []float64{3, 5, 7, 9, 11, 0}, 5),
		testkit.NumericColumnNA("x", []float64{0, 1, 2, 3, 4, 5}, 5),
	)
	result, _, err := Regress(ds, "y", []string{"x"}, interceptConfig())
	if err != nil {
		t.Fatalf("regress: %v", err)
	}
	if result.Observations != 5 {
		t.Fatalf("expected 5 complete rows, got %d", result.Observations)
	}
	if math.Abs(result.Coefficients[1].Estimate-2) > 1e-9 {
		t.Fatalf("expected slope 2 over complete rows, got %v", result.Coefficients[1].Estimate)
	}
}

func TestRegress_ConstantDependent(t *testing.T) {
	ds := testkit.MustDataset(
		testkit.NumericColumn("y", 4, 4, 4, 4),
		testkit.NumericColumn("x", 1, 2, 3, 4),
	)
	_, _, err := Regress(ds, "y", []string{"x"}, interceptConfig())
	if !errors.Is(err, core.ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput for constant dependent, got %v", err)
	}
}
