package bootstrap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/fwdcurve/config"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/ratehelpers"
)

// Job is one curve to calibrate. Jobs run together must not share helpers
// or curve handles.
type Job struct {
	Name    string
	Curve   *curve.Piecewise
	Helpers []ratehelpers.Helper
}

// RunJobs bootstraps independent curves concurrently, at most
// Solver.ParallelJobs at a time. The first failure cancels the rest.
// Results are in job order.
func RunJobs(ctx context.Context, jobs []Job, opts Options) ([]*Result, error) {
	s := config.GetConfig().Solver
	if opts.Solver != nil {
		s = *opts.Solver
	}
	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.ParallelJobs, 1))
	for i, job := range jobs {
		jobOpts := opts
		jobOpts.Name = job.Name
		g.Go(func() error {
			res, err := Bootstrap(ctx, job.Curve, job.Helpers, jobOpts)
			if err != nil {
				return fmt.Errorf("curve %s: %w", job.Name, err)
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
