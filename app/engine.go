// Package app wires the analysis engines behind a single stateless entry
// point. An Engine holds only configuration defaults and ports; every run is
// a pure function of (Dataset, Request).
package app

import (
	"context"
	"fmt"
	"math"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/domain/dataset"
	"statlab/internal"
	"statlab/internal/analysis/clean"
	"statlab/internal/analysis/correlate"
	"statlab/internal/analysis/describe"
	"statlab/internal/analysis/hypotest"
	"statlab/internal/analysis/kmeans"
	"statlab/internal/analysis/pca"
	"statlab/internal/analysis/regress"
	"statlab/internal/config"
	"statlab/ports"
)

// Engine runs analyses over immutable Datasets. It holds no state between
// calls; concurrent runs over the same Dataset need no synchronization.
type Engine struct {
	cfg config.EngineConfig
	rng ports.RNGPort
	log *internal.Logger
}

// NewEngine creates an engine with the given defaults and RNG port
func NewEngine(cfg config.EngineConfig, rng ports.RNGPort) *Engine {
	return &Engine{
		cfg: cfg,
		rng: rng,
		log: internal.DefaultLogger,
	}
}

// Run executes one analysis request and returns its complete result, or
// exactly one engine error. Partial results are never returned.
func (e *Engine) Run(ctx context.Context, ds *dataset.Dataset, req analysis.Request) (*analysis.Result, error) {
	select {
	case <-ctx.Done():
		return nil, core.ErrCancelled
	default:
	}

	if err := e.validateSelection(ds, req); err != nil {
		return nil, err
	}

	result := analysis.NewResult(req)
	defaults := e.cfg.Defaults()
	var err error

	switch req.Kind {
	case analysis.KindDescriptive:
		err = e.runDescriptive(ds, req, &result)
	case analysis.KindTTest:
		err = e.runTTest(ds, req, defaults, &result)
	case analysis.KindAnova:
		err = e.runAnova(ds, req, defaults, &result)
	case analysis.KindCorrelation:
		err = e.runCorrelation(ds, req, defaults, &result)
	case analysis.KindRegression:
		err = e.runRegression(ds, req, defaults, &result)
	case analysis.KindPCA:
		err = e.runPCA(ctx, ds, req, defaults, &result)
	case analysis.KindKMeans:
		err = e.runKMeans(ctx, ds, req, defaults, &result)
	default:
		err = core.NewInvalidConfigError("kind", fmt.Sprintf("unknown analysis kind %q", req.Kind))
	}
	if err != nil {
		e.log.Debug("analysis %s failed: %v", req.Kind, err)
		return nil, err
	}
	return &result, nil
}

// Clean applies a missing-value policy to the target columns, returning a new
// Dataset. The engine-level drop-column threshold applies unless overridden.
func (e *Engine) Clean(ds *dataset.Dataset, opts clean.Options, targets []string) (*dataset.Dataset, error) {
	if opts.DropColumnThreshold == 0 {
		opts.DropColumnThreshold = e.cfg.DropColumnThreshold
	}
	return clean.Apply(ds, opts, targets)
}

// Quality inspects a Dataset without modifying it
func (e *Engine) Quality(ds *dataset.Dataset) clean.Report {
	return clean.QualityReport(ds)
}

// validateSelection enforces existence for every kind; numeric typing is
// additionally required for every non-grouping column except in descriptive
// requests, which summarize categorical columns as frequency tables.
func (e *Engine) validateSelection(ds *dataset.Dataset, req analysis.Request) error {
	if len(req.Selection.Refs) == 0 {
		return core.NewInvalidConfigError("selection", "no columns selected")
	}
	if req.Kind == analysis.KindDescriptive {
		for _, ref := range req.Selection.Refs {
			if _, ok := ds.Column(ref.Name); !ok {
				return core.NewColumnNotFoundError(ref.Name)
			}
		}
		return nil
	}
	return req.Selection.Validate(ds)
}

func (e *Engine) runDescriptive(ds *dataset.Dataset, req analysis.Request, result *analysis.Result) error {
	if err := analysis.ParseDescriptiveConfig(req.Config); err != nil {
		return err
	}
	payload, charts, err := describe.Describe(ds, req.Selection.Names())
	if err != nil {
		return err
	}
	result.Descriptive = payload
	result.Charts = charts
	result.Interpretation = fmt.Sprintf("summarized %d numeric and %d categorical columns",
		len(payload.Summaries), len(payload.Frequencies))
	return nil
}

func (e *Engine) runTTest(ds *dataset.Dataset, req analysis.Request, d analysis.Defaults, result *analysis.Result) error {
	cfg, err := analysis.ParseTTestConfig(req.Config, d)
	if err != nil {
		return err
	}
	valueCol, groupCol, err := valueAndGroup(req.Selection)
	if err != nil {
		return err
	}
	payload, charts, err := hypotest.TTest(ds, valueCol, groupCol, cfg)
	if err != nil {
		return err
	}
	result.TTest = payload
	result.Charts = charts
	verdict := "no significant difference between group means; fail to reject H0"
	if payload.RejectNull {
		verdict = "significant difference between group means; reject H0"
	}
	result.Interpretation = fmt.Sprintf("%s (t=%.3f, df=%.1f, p=%.4f, d=%.3f)",
		verdict, payload.Statistic, payload.DF, payload.PValue, payload.CohensD)
	return nil
}

func (e *Engine) runAnova(ds *dataset.Dataset, req analysis.Request, d analysis.Defaults, result *analysis.Result) error {
	cfg, err := analysis.ParseAnovaConfig(req.Config, d)
	if err != nil {
		return err
	}
	valueCol, groupCol, err := valueAndGroup(req.Selection)
	if err != nil {
		return err
	}
	payload, charts, err := hypotest.Anova(ds, valueCol, groupCol, cfg)
	if err != nil {
		return err
	}
	result.Anova = payload
	result.Charts = charts
	verdict := "no significant difference across groups; fail to reject H0"
	if payload.RejectNull {
		verdict = "significant difference across groups; reject H0"
	}
	result.Interpretation = fmt.Sprintf("%s (F(%d,%d)=%.3f, p=%.4f, eta²=%.3f)",
		verdict, payload.DFBetween, payload.DFWithin, payload.FStatistic, payload.PValue, payload.EtaSquared)
	return nil
}

func (e *Engine) runCorrelation(ds *dataset.Dataset, req analysis.Request, d analysis.Defaults, result *analysis.Result) error {
	cfg, err := analysis.ParseCorrelationConfig(req.Config, d)
	if err != nil {
		return err
	}
	columns := nonGrouping(req.Selection)
	payload, charts, err := correlate.Correlate(ds, columns, cfg)
	if err != nil {
		return err
	}
	result.Correlation = payload
	result.Charts = charts
	result.Interpretation = correlationSummary(payload, cfg.Alpha)
	return nil
}

func (e *Engine) runRegression(ds *dataset.Dataset, req analysis.Request, d analysis.Defaults, result *analysis.Result) error {
	cfg, err := analysis.ParseRegressionConfig(req.Config, d)
	if err != nil {
		return err
	}
	dependent, ok := req.Selection.First(dataset.RoleDependent)
	if !ok {
		return core.NewInvalidConfigError("selection", "regression needs a dependent column")
	}
	independents := req.Selection.ByRole(dataset.RoleIndependent)
	if len(independents) == 0 {
		return core.NewInvalidConfigError("selection", "regression needs at least one independent column")
	}
	payload, charts, err := regress.Regress(ds, dependent, independents, cfg)
	if err != nil {
		return err
	}
	result.Regression = payload
	result.Charts = charts
	result.Interpretation = fmt.Sprintf("model explains %.1f%% of variance in %s (F(%d,%d)=%.3f, p=%.4f)",
		100*payload.RSquared, dependent, payload.DFModel, payload.DFResidual, payload.FStatistic, payload.FPValue)
	return nil
}

func (e *Engine) runPCA(ctx context.Context, ds *dataset.Dataset, req analysis.Request, d analysis.Defaults, result *analysis.Result) error {
	cfg, err := analysis.ParsePCAConfig(req.Config, d)
	if err != nil {
		return err
	}
	columns := nonGrouping(req.Selection)
	payload, charts, err := pca.PCA(ctx, ds, columns, cfg)
	if err != nil {
		return err
	}
	result.PCA = payload
	result.Charts = charts
	last := payload.Components[len(payload.Components)-1]
	result.Interpretation = fmt.Sprintf("%d components explain %.1f%% of total variance",
		len(payload.Components), 100*last.CumulativeRatio)
	return nil
}

func (e *Engine) runKMeans(ctx context.Context, ds *dataset.Dataset, req analysis.Request, d analysis.Defaults, result *analysis.Result) error {
	cfg, err := analysis.ParseKMeansConfig(req.Config, d)
	if err != nil {
		return err
	}
	stream, err := e.rng.SeededStream(ctx, "kmeans", cfg.Seed)
	if err != nil {
		return err
	}
	columns := nonGrouping(req.Selection)
	payload, charts, err := kmeans.KMeans(ctx, ds, columns, cfg, stream)
	if err != nil {
		return err
	}
	result.KMeans = payload
	result.Charts = charts
	result.Interpretation = fmt.Sprintf("%d clusters, %s after %d iterations (total within-cluster SS %.4f)",
		payload.K, payload.Stop, payload.Iterations, payload.TotalWithinSS)
	return nil
}

// valueAndGroup resolves the value/grouping pair of a group-comparison request
func valueAndGroup(sel dataset.Selection) (string, string, error) {
	groupCol, ok := sel.First(dataset.RoleGrouping)
	if !ok {
		return "", "", core.NewInvalidConfigError("selection", "missing grouping column")
	}
	if valueCol, ok := sel.First(dataset.RoleDependent); ok {
		return valueCol, groupCol, nil
	}
	for _, ref := range sel.Refs {
		if ref.Role != dataset.RoleGrouping {
			return ref.Name, groupCol, nil
		}
	}
	return "", "", core.NewInvalidConfigError("selection", "missing value column")
}

func nonGrouping(sel dataset.Selection) []string {
	var names []string
	for _, ref := range sel.Refs {
		if ref.Role != dataset.RoleGrouping {
			names = append(names, ref.Name)
		}
	}
	return names
}

func correlationSummary(c *analysis.CorrelationResult, alpha float64) string {
	if len(c.Columns) == 2 {
		r := c.Matrix[0][1]
		p := c.PValues[0][1]
		strength := "very weak or no"
		switch abs := math.Abs(r); {
		case abs >= 0.8:
			strength = "strong"
		case abs >= 0.5:
			strength = "moderate"
		case abs >= 0.3:
			strength = "low"
		}
		direction := "positive"
		if r < 0 {
			direction = "negative"
		}
		if p >= alpha {
			return fmt.Sprintf("no significant correlation between %s and %s (r=%.3f, p=%.4f)",
				c.Columns[0], c.Columns[1], r, p)
		}
		return fmt.Sprintf("%s %s correlation between %s and %s (r=%.3f, p=%.4f)",
			strength, direction, c.Columns[0], c.Columns[1], r, p)
	}
	significant := 0
	pairs := 0
	for i := range c.Columns {
		for j := i + 1; j < len(c.Columns); j++ {
			pairs++
			if c.PValues[i][j] < alpha {
				significant++
			}
		}
	}
	return fmt.Sprintf("%d of %d column pairs significantly correlated at alpha=%.2g", significant, pairs, alpha)
}
