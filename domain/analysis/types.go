package analysis

import (
	"fmt"
	"math"

	"statlab/domain/core"
	"statlab/domain/dataset"
)

// Kind identifies the requested analysis
type Kind string

const (
	KindDescriptive Kind = "descriptive"
	KindTTest       Kind = "ttest"
	KindAnova       Kind = "anova"
	KindCorrelation Kind = "correlation"
	KindRegression  Kind = "regression"
	KindPCA         Kind = "pca"
	KindKMeans      Kind = "kmeans"
)

// TTestVariant selects the flavor of the t-test
type TTestVariant string

const (
	TTestEqualVariance TTestVariant = "independent-equal-variance"
	TTestWelch         TTestVariant = "independent-welch"
	TTestPaired        TTestVariant = "paired"
)

// CorrelationMethod selects the correlation coefficient
type CorrelationMethod string

const (
	Pearson  CorrelationMethod = "pearson"
	Spearman CorrelationMethod = "spearman"
)

// KMeansInit selects the centroid initialization policy
type KMeansInit string

const (
	InitRandomSeeded  KMeansInit = "random-seeded"
	InitFarthestFirst KMeansInit = "farthest-first"
)

// Request is an immutable description of one analysis to run.
// Config holds analysis-specific settings keyed by name; unrecognized keys
// are rejected at parse time rather than silently ignored.
type Request struct {
	ID        core.RequestID    `json:"id"`
	Kind      Kind              `json:"kind"`
	Selection dataset.Selection `json:"selection"`
	Config    map[string]any    `json:"config,omitempty"`
}

// NewRequest builds a request with a fresh identifier
func NewRequest(kind Kind, sel dataset.Selection, config map[string]any) Request {
	return Request{
		ID:        core.RequestID(core.NewID()),
		Kind:      kind,
		Selection: sel,
		Config:    config,
	}
}

// Defaults carries engine-level fallbacks applied when a request omits a setting
type Defaults struct {
	Alpha               float64 // significance level
	KMeansMaxIterations int
	KMeansTolerance     float64
	DropColumnThreshold float64 // missing-ratio above which drop-column removes a column
}

// StandardDefaults mirrors the documented per-operation defaults
func StandardDefaults() Defaults {
	return Defaults{
		Alpha:               0.05,
		KMeansMaxIterations: 300,
		KMeansTolerance:     1e-6,
		DropColumnThreshold: 0.5,
	}
}

// configReader tracks which keys a parser consumed so leftovers can fail fast
type configReader struct {
	raw  map[string]any
	used map[string]bool
}

func newConfigReader(raw map[string]any) *configReader {
	return &configReader{raw: raw, used: make(map[string]bool)}
}

func (r *configReader) float(key string, fallback float64) (float64, error) {
	v, ok := r.raw[key]
	if !ok {
		return fallback, nil
	}
	r.used[key] = true
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, core.NewInvalidConfigError(key, fmt.Sprintf("expected number, got %T", v))
	}
}

func (r *configReader) integer(key string, fallback int) (int, error) {
	v, ok := r.raw[key]
	if !ok {
		return fallback, nil
	}
	r.used[key] = true
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, core.NewInvalidConfigError(key, "expected integer")
		}
		return int(n), nil
	default:
		return 0, core.NewInvalidConfigError(key, fmt.Sprintf("expected integer, got %T", v))
	}
}

func (r *configReader) str(key string, fallback string) (string, error) {
	v, ok := r.raw[key]
	if !ok {
		return fallback, nil
	}
	r.used[key] = true
	s, ok := v.(string)
	if !ok {
		return "", core.NewInvalidConfigError(key, fmt.Sprintf("expected string, got %T", v))
	}
	return s, nil
}

func (r *configReader) boolean(key string, fallback bool) (bool, error) {
	v, ok := r.raw[key]
	if !ok {
		return fallback, nil
	}
	r.used[key] = true
	b, ok := v.(bool)
	if !ok {
		return false, core.NewInvalidConfigError(key, fmt.Sprintf("expected bool, got %T", v))
	}
	return b, nil
}

func (r *configReader) finish() error {
	for key := range r.raw {
		if !r.used[key] {
			return core.NewUnknownConfigKeyError(key)
		}
	}
	return nil
}

// TTestConfig holds the parsed settings for a t-test request
type TTestConfig struct {
	Variant TTestVariant
	Alpha   float64
}

// ParseTTestConfig validates and resolves t-test settings
func ParseTTestConfig(raw map[string]any, d Defaults) (TTestConfig, error) {
	r := newConfigReader(raw)
	variant, err := r.str("variant", string(TTestEqualVariance))
	if err != nil {
		return TTestConfig{}, err
	}
	alpha, err := r.float("alpha", d.Alpha)
	if err != nil {
		return TTestConfig{}, err
	}
	if err := r.finish(); err != nil {
		return TTestConfig{}, err
	}
	switch TTestVariant(variant) {
	case TTestEqualVariance, TTestWelch, TTestPaired:
	default:
		return TTestConfig{}, core.NewInvalidConfigError("variant", fmt.Sprintf("unknown t-test variant %q", variant))
	}
	if alpha <= 0 || alpha >= 1 {
		return TTestConfig{}, core.NewInvalidConfigError("alpha", "must be in (0, 1)")
	}
	return TTestConfig{Variant: TTestVariant(variant), Alpha: alpha}, nil
}

// AnovaConfig holds the parsed settings for a one-way ANOVA request
type AnovaConfig struct {
	Alpha float64
}

// ParseAnovaConfig validates and resolves ANOVA settings
func ParseAnovaConfig(raw map[string]any, d Defaults) (AnovaConfig, error) {
	r := newConfigReader(raw)
	alpha, err := r.float("alpha", d.Alpha)
	if err != nil {
		return AnovaConfig{}, err
	}
	if err := r.finish(); err != nil {
		return AnovaConfig{}, err
	}
	if alpha <= 0 || alpha >= 1 {
		return AnovaConfig{}, core.NewInvalidConfigError("alpha", "must be in (0, 1)")
	}
	return AnovaConfig{Alpha: alpha}, nil
}

// CorrelationConfig holds the parsed settings for a correlation request
type CorrelationConfig struct {
	Method CorrelationMethod
	Alpha  float64
}

// ParseCorrelationConfig validates and resolves correlation settings
func ParseCorrelationConfig(raw map[string]any, d Defaults) (CorrelationConfig, error) {
	r := newConfigReader(raw)
	method, err := r.str("method", string(Pearson))
	if err != nil {
		return CorrelationConfig{}, err
	}
	alpha, err := r.float("alpha", d.Alpha)
	if err != nil {
		return CorrelationConfig{}, err
	}
	if err := r.finish(); err != nil {
		return CorrelationConfig{}, err
	}
	switch CorrelationMethod(method) {
	case Pearson, Spearman:
	default:
		return CorrelationConfig{}, core.NewInvalidConfigError("method", fmt.Sprintf("unknown correlation method %q", method))
	}
	return CorrelationConfig{Method: CorrelationMethod(method), Alpha: alpha}, nil
}

// RegressionConfig holds the parsed settings for a regression request
type RegressionConfig struct {
	Intercept bool
	Alpha     float64
}

// ParseRegressionConfig validates and resolves regression settings
func ParseRegressionConfig(raw map[string]any, d Defaults) (RegressionConfig, error) {
	r := newConfigReader(raw)
	intercept, err := r.boolean("intercept", true)
	if err != nil {
		return RegressionConfig{}, err
	}
	alpha, err := r.float("alpha", d.Alpha)
	if err != nil {
		return RegressionConfig{}, err
	}
	if err := r.finish(); err != nil {
		return RegressionConfig{}, err
	}
	return RegressionConfig{Intercept: intercept, Alpha: alpha}, nil
}

// PCAConfig holds the parsed settings for a PCA request
type PCAConfig struct {
	Components  int  // 0 means all
	Standardize bool // correlation-based when true, covariance-based otherwise
}

// ParsePCAConfig validates and resolves PCA settings
func ParsePCAConfig(raw map[string]any, d Defaults) (PCAConfig, error) {
	r := newConfigReader(raw)
	components, err := r.integer("components", 0)
	if err != nil {
		return PCAConfig{}, err
	}
	standardize, err := r.boolean("standardize", true)
	if err != nil {
		return PCAConfig{}, err
	}
	if err := r.finish(); err != nil {
		return PCAConfig{}, err
	}
	if components < 0 {
		return PCAConfig{}, core.NewInvalidConfigError("components", "must be non-negative")
	}
	return PCAConfig{Components: components, Standardize: standardize}, nil
}

// KMeansConfig holds the parsed settings for a k-means request
type KMeansConfig struct {
	K             int
	Init          KMeansInit
	MaxIterations int
	Tolerance     float64
	Seed          int64
	Standardize   bool
}

// ParseKMeansConfig validates and resolves k-means settings
func ParseKMeansConfig(raw map[string]any, d Defaults) (KMeansConfig, error) {
	r := newConfigReader(raw)
	k, err := r.integer("k", 0)
	if err != nil {
		return KMeansConfig{}, err
	}
	initPolicy, err := r.str("init", string(InitRandomSeeded))
	if err != nil {
		return KMeansConfig{}, err
	}
	maxIter, err := r.integer("max_iterations", d.KMeansMaxIterations)
	if err != nil {
		return KMeansConfig{}, err
	}
	tolerance, err := r.float("tolerance", d.KMeansTolerance)
	if err != nil {
		return KMeansConfig{}, err
	}
	seed, err := r.integer("seed", 0)
	if err != nil {
		return KMeansConfig{}, err
	}
	standardize, err := r.boolean("standardize", false)
	if err != nil {
		return KMeansConfig{}, err
	}
	if err := r.finish(); err != nil {
		return KMeansConfig{}, err
	}
	switch KMeansInit(initPolicy) {
	case InitRandomSeeded, InitFarthestFirst:
	default:
		return KMeansConfig{}, core.NewInvalidConfigError("init", fmt.Sprintf("unknown initialization policy %q", initPolicy))
	}
	if k < 1 {
		return KMeansConfig{}, core.NewInvalidConfigError("k", "must be at least 1")
	}
	if maxIter < 1 {
		return KMeansConfig{}, core.NewInvalidConfigError("max_iterations", "must be at least 1")
	}
	if tolerance < 0 {
		return KMeansConfig{}, core.NewInvalidConfigError("tolerance", "must be non-negative")
	}
	return KMeansConfig{
		K:             k,
		Init:          KMeansInit(initPolicy),
		MaxIterations: maxIter,
		Tolerance:     tolerance,
		Seed:          int64(seed),
		Standardize:   standardize,
	}, nil
}

// ParseDescriptiveConfig rejects any configuration: describe has no settings
func ParseDescriptiveConfig(raw map[string]any) error {
	return newConfigReader(raw).finish()
}
