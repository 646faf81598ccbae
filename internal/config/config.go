package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"statlab/domain/analysis"
)

// EngineConfig holds the engine-level defaults applied when an analysis
// request omits a setting. Explicit request configuration always wins.
type EngineConfig struct {
	Alpha               float64 // default significance level
	KMeansMaxIterations int
	KMeansTolerance     float64
	DropColumnThreshold float64 // missing-ratio above which drop-column removes a column
}

// Load reads configuration from the environment, honoring a .env file when
// present. Unset variables fall back to the documented defaults.
func Load() (EngineConfig, error) {
	// A missing .env file is fine; explicit environment still applies.
	_ = godotenv.Load()

	d := analysis.StandardDefaults()
	cfg := EngineConfig{
		Alpha:               d.Alpha,
		KMeansMaxIterations: d.KMeansMaxIterations,
		KMeansTolerance:     d.KMeansTolerance,
		DropColumnThreshold: d.DropColumnThreshold,
	}

	var err error
	if cfg.Alpha, err = floatEnv("STATLAB_ALPHA", cfg.Alpha); err != nil {
		return EngineConfig{}, err
	}
	if cfg.KMeansMaxIterations, err = intEnv("STATLAB_KMEANS_MAX_ITERATIONS", cfg.KMeansMaxIterations); err != nil {
		return EngineConfig{}, err
	}
	if cfg.KMeansTolerance, err = floatEnv("STATLAB_KMEANS_TOLERANCE", cfg.KMeansTolerance); err != nil {
		return EngineConfig{}, err
	}
	if cfg.DropColumnThreshold, err = floatEnv("STATLAB_DROP_COLUMN_THRESHOLD", cfg.DropColumnThreshold); err != nil {
		return EngineConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

// Validate checks that all settings are in range
func (c EngineConfig) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", c.Alpha)
	}
	if c.KMeansMaxIterations < 1 {
		return fmt.Errorf("k-means max iterations must be at least 1, got %d", c.KMeansMaxIterations)
	}
	if c.KMeansTolerance < 0 {
		return fmt.Errorf("k-means tolerance must be non-negative, got %g", c.KMeansTolerance)
	}
	if c.DropColumnThreshold < 0 || c.DropColumnThreshold > 1 {
		return fmt.Errorf("drop-column threshold must be in [0, 1], got %g", c.DropColumnThreshold)
	}
	return nil
}

// Defaults converts the engine config into request-level defaults
func (c EngineConfig) Defaults() analysis.Defaults {
	return analysis.Defaults{
		Alpha:               c.Alpha,
		KMeansMaxIterations: c.KMeansMaxIterations,
		KMeansTolerance:     c.KMeansTolerance,
		DropColumnThreshold: c.DropColumnThreshold,
	}
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
