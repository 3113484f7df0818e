package newton

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent solves of the same function, one per seed in
// [seedStart, seedStart+numRuns).
type Ensemble struct {
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{numRuns: numRuns, seedStart: seedStart, limit: 4}
}

// SetLimit caps the number of solves running at once. n <= 0 removes the cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run returns one result per seed, in seed order. A zero slope in one run is
// recorded on that run's slot and does not cancel the others.
func (e *Ensemble) Run(ctx context.Context, iters int, f Function) ([]*Result, []error, error) {
	if iters < 0 {
		return nil, nil, ErrNegativeIterations
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	g, gctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			s := New(e.seedStart + int64(idx))
			res, err := s.Solve(gctx, iters, f)
			results[idx] = res
			if err != nil && gctx.Err() != nil {
				return err
			}
			errs[idx] = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, errs, nil
}
