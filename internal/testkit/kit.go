// Package testkit provides synthetic dataset builders for engine tests.
// All generators are deterministic given a seed.
package testkit

import (
	"fmt"
	"math/rand"

	"statlab/domain/dataset"
)

// NumericColumn builds a numeric column from literal values
func NumericColumn(name string, values ...float64) dataset.Column {
	vals := make([]dataset.Value, len(values))
	for i, v := range values {
		vals[i] = dataset.Num(v)
	}
	return dataset.Column{Name: name, Type: dataset.Numeric, Values: vals}
}

// NumericColumnNA builds a numeric column with missing markers at the given
// row indices
func NumericColumnNA(name string, values []float64, missing ...int) dataset.Column {
	col := NumericColumn(name, values...)
	for _, idx := range missing {
		col.Values[idx] = dataset.NA()
	}
	return col
}

// CategoricalColumn builds a categorical column from labels
func CategoricalColumn(name string, labels ...string) dataset.Column {
	vals := make([]dataset.Value, len(labels))
	for i, s := range labels {
		vals[i] = dataset.Str(s)
	}
	return dataset.Column{Name: name, Type: dataset.Categorical, Values: vals}
}

// MustDataset builds a Dataset or panics; for fixtures with known-good shape
func MustDataset(cols ...dataset.Column) *dataset.Dataset {
	ds, err := dataset.New(cols...)
	if err != nil {
		panic(fmt.Sprintf("testkit: bad fixture: %v", err))
	}
	return ds
}

// LinearDataset generates columns x and y with y = slope*x + intercept plus
// uniform noise in [-noise, noise]
func LinearDataset(n int, slope, intercept, noise float64, seed int64) *dataset.Dataset {
	rng := rand.New(rand.NewSource(seed))
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) + rng.Float64()
		ys[i] = slope*xs[i] + intercept + noise*(2*rng.Float64()-1)
	}
	return MustDataset(NumericColumn("x", xs...), NumericColumn("y", ys...))
}

// BlobDataset generates well-separated point clouds around the given centers,
// perCenter points each, with uniform spread per coordinate
func BlobDataset(centers [][]float64, perCenter int, spread float64, seed int64) *dataset.Dataset {
	rng := rand.New(rand.NewSource(seed))
	dims := len(centers[0])
	cols := make([][]float64, dims)
	for d := range cols {
		cols[d] = make([]float64, 0, len(centers)*perCenter)
	}
	for _, center := range centers {
		for i := 0; i < perCenter; i++ {
			for d := 0; d < dims; d++ {
				cols[d] = append(cols[d], center[d]+spread*(2*rng.Float64()-1))
			}
		}
	}
	built := make([]dataset.Column, dims)
	for d := range built {
		built[d] = NumericColumn(fmt.Sprintf("f%d", d+1), cols[d]...)
	}
	return MustDataset(built...)
}
