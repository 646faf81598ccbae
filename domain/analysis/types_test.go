package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/core"
	"statlab/domain/dataset"
)

func TestParseTTestConfig(t *testing.T) {
	d := StandardDefaults()

	cfg, err := ParseTTestConfig(nil, d)
	require.NoError(t, err)
	assert.Equal(t, TTestEqualVariance, cfg.Variant)
	assert.Equal(t, 0.05, cfg.Alpha)

	cfg, err = ParseTTestConfig(map[string]any{"variant": "paired", "alpha": 0.01}, d)
	require.NoError(t, err)
	assert.Equal(t, TTestPaired, cfg.Variant)
	assert.Equal(t, 0.01, cfg.Alpha)

	_, err = ParseTTestConfig(map[string]any{"variant": "one-sample"}, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = ParseTTestConfig(map[string]any{"alpha": 1.5}, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParseConfig_RejectsUnknownKeys(t *testing.T) {
	d := StandardDefaults()

	_, err := ParseTTestConfig(map[string]any{"alhpa": 0.01}, d)
	require.ErrorIs(t, err, core.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "alhpa")

	_, err = ParseKMeansConfig(map[string]any{"k": 3, "speed": "fast"}, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	err = ParseDescriptiveConfig(map[string]any{"bins": 10})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	assert.NoError(t, ParseDescriptiveConfig(nil))
}

func TestParseCorrelationConfig(t *testing.T) {
	d := StandardDefaults()

	cfg, err := ParseCorrelationConfig(nil, d)
	require.NoError(t, err)
	assert.Equal(t, Pearson, cfg.Method)

	cfg, err = ParseCorrelationConfig(map[string]any{"method": "spearman"}, d)
	require.NoError(t, err)
	assert.Equal(t, Spearman, cfg.Method)

	_, err = ParseCorrelationConfig(map[string]any{"method": "kendall"}, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParseRegressionConfig(t *testing.T) {
	d := StandardDefaults()

	cfg, err := ParseRegressionConfig(nil, d)
	require.NoError(t, err)
	assert.True(t, cfg.Intercept)

	cfg, err = ParseRegressionConfig(map[string]any{"intercept": false}, d)
	require.NoError(t, err)
	assert.False(t, cfg.Intercept)

	_, err = ParseRegressionConfig(map[string]any{"intercept": "yes"}, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParsePCAConfig(t *testing.T) {
	d := StandardDefaults()

	cfg, err := ParsePCAConfig(nil, d)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Components)
	assert.True(t, cfg.Standardize)

	// JSON numbers arrive as float64
	cfg, err = ParsePCAConfig(map[string]any{"components": float64(2)}, d)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Components)

	_, err = ParsePCAConfig(map[string]any{"components": 2.5}, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = ParsePCAConfig(map[string]any{"components": -1}, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParseKMeansConfig(t *testing.T) {
	d := StandardDefaults()

	cfg, err := ParseKMeansConfig(map[string]any{"k": 3}, d)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.K)
	assert.Equal(t, InitRandomSeeded, cfg.Init)
	assert.Equal(t, 300, cfg.MaxIterations)
	assert.Equal(t, 1e-6, cfg.Tolerance)
	assert.False(t, cfg.Standardize)

	cfg, err = ParseKMeansConfig(map[string]any{
		"k": 2, "init": "farthest-first", "max_iterations": 50,
		"tolerance": 1e-4, "seed": 99, "standardize": true,
	}, d)
	require.NoError(t, err)
	assert.Equal(t, InitFarthestFirst, cfg.Init)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.True(t, cfg.Standardize)

	_, err = ParseKMeansConfig(nil, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig, "k is required")

	_, err = ParseKMeansConfig(map[string]any{"k": 2, "init": "kmeans++"}, d)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestNewRequest_AssignsID(t *testing.T) {
	sel := dataset.Select(dataset.RoleFeature, "a")
	req := NewRequest(KindDescriptive, sel, nil)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, KindDescriptive, req.Kind)

	other := NewRequest(KindDescriptive, sel, nil)
	assert.NotEqual(t, req.ID, other.ID)
}
