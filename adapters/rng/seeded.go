// Package rng provides the deterministic random-stream adapter used by
// seeded analyses.
package rng

import (
	"context"
	"hash/fnv"
	"math/rand"

	"statlab/ports"
)

// SeededAdapter derives independent deterministic streams from a base seed
// and an operation name, so two different operations sharing a seed do not
// consume the same sequence.
type SeededAdapter struct{}

// NewSeededAdapter creates the adapter
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{}
}

var _ ports.RNGPort = (*SeededAdapter)(nil)

// SeededStream creates a deterministic generator for a named operation
func (a *SeededAdapter) SeededStream(_ context.Context, name string, seed int64) (*rand.Rand, error) {
	h := fnv.New64a()
	h.Write([]byte(name))
	derived := seed ^ int64(h.Sum64())
	return rand.New(rand.NewSource(derived)), nil
}
