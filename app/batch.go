package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"statlab/domain/analysis"
	"statlab/domain/dataset"
)

// RunAll executes independent analyses concurrently over the same Dataset.
// The Dataset is read-only for the duration, so no synchronization is needed.
// Results come back in request order; the first failure cancels the rest and
// is returned alone.
func (e *Engine) RunAll(ctx context.Context, ds *dataset.Dataset, reqs []analysis.Request) ([]*analysis.Result, error) {
	results := make([]*analysis.Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			result, err := e.Run(gctx, ds, req)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
