package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job builds one independent run. Each job owns its own bodies and kernel.
type Job struct {
	Name  string
	Build func() (*Simulator, Config, error)
}

// Ensemble runs independent simulations concurrently, at most Limit at a
// time. Limit ≤ 0 means no bound.
type Ensemble struct {
	Limit int
}

func NewEnsemble(limit int) *Ensemble {
	return &Ensemble{Limit: limit}
}

// Run returns results in job order. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if e.Limit > 0 {
		g.SetLimit(e.Limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			s, cfg, err := job.Build()
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
