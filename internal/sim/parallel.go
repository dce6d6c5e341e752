package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/dynout/internal/dynamo"
)

// Ensemble runs one simulation per initial state concurrently. Every run
// builds its own dense output; the system and stepper are shared and must
// therefore be safe for concurrent use, which holds for every model and
// stepper in this module.
type Ensemble struct {
	base  *Simulator
	limit int
}

// NewEnsemble bounds concurrency to limit goroutines; limit <= 0 means no
// bound.
func NewEnsemble(s *Simulator, limit int) *Ensemble {
	return &Ensemble{base: s, limit: limit}
}

// Run integrates every x0 with cfg. The first failing run cancels the rest.
func (e *Ensemble) Run(ctx context.Context, x0s []dynamo.State, cfg dynamo.Config) ([]*Result, error) {
	results := make([]*Result, len(x0s))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, x0 := range x0s {
		g.Go(func() error {
			res, err := e.base.Run(ctx, x0, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
