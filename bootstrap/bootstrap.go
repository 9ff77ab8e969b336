// Package bootstrap calibrates a piecewise discount curve so that every
// rate helper reprices its market quote.
package bootstrap

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/meenmo/fwdcurve/config"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/metrics"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/utils"
)

// Options tune a bootstrap run. The zero value uses config.GetConfig().
type Options struct {
	Name    string
	Solver  *config.Solver
	Metrics *metrics.Collector
	Logger  logrus.FieldLogger
}

// Node is one calibrated pillar.
type Node struct {
	Pillar     time.Time
	Discount   float64
	Kind       ratehelpers.Kind
	Iterations int
}

// Result summarizes a converged run.
type Result struct {
	RunID      string
	Name       string
	Passes     int
	Iterations int
	Nodes      []Node
}

// Bootstrap links every helper to c, places one node per helper pillar and
// solves the nodes in pillar order until each helper's quote error is within
// the solver accuracy. Helpers that read past their own pillar make later
// nodes move earlier quotes, so the sweep repeats until no discount factor
// moves by more than the accuracy.
func Bootstrap(ctx context.Context, c *curve.Piecewise, helpers []ratehelpers.Helper, opts Options) (res *Result, err error) {
	s := config.GetConfig().Solver
	if opts.Solver != nil {
		s = *opts.Solver
	}
	if err := (config.Config{Solver: s}).Validate(); err != nil {
		return nil, fmt.Errorf("Bootstrap: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	runID := uuid.NewString()
	log = log.WithFields(logrus.Fields{"run_id": runID, "curve": opts.Name})

	started := time.Now()
	passes := 0
	defer func() {
		opts.Metrics.ObserveRun(opts.Name, passes, time.Since(started), err)
	}()

	sorted, err := prepare(c, helpers, s.GuessRate)
	if err != nil {
		return nil, fmt.Errorf("Bootstrap: %w", err)
	}

	local := true
	for _, h := range sorted {
		if h.LatestDate().After(h.PillarDate()) {
			local = false
			break
		}
	}

	res = &Result{RunID: runID, Name: opts.Name, Nodes: make([]Node, len(sorted))}
	for passes = 1; passes <= s.MaxPasses; passes++ {
		maxChange := 0.0
		for i, h := range sorted {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("Bootstrap: %w", err)
			}
			df, iters, err := solvePillar(c, i+1, h, s)
			if err != nil {
				return nil, fmt.Errorf("Bootstrap: pass %d: %w", passes, err)
			}
			prev := res.Nodes[i].Discount
			if passes > 1 {
				maxChange = math.Max(maxChange, math.Abs(df-prev))
			}
			res.Nodes[i] = Node{Pillar: h.PillarDate(), Discount: df, Kind: h.Kind(), Iterations: iters}
			res.Iterations += iters
			opts.Metrics.ObserveNode(h.Kind().String(), iters)
			log.WithFields(logrus.Fields{
				"pass":       passes,
				"pillar":     h.PillarDate().Format(utils.DateLayout),
				"kind":       h.Kind().String(),
				"discount":   df,
				"iterations": iters,
			}).Debug("node solved")
		}
		if local || (passes > 1 && maxChange < s.Accuracy) {
			res.Passes = passes
			log.WithFields(logrus.Fields{
				"nodes":      len(res.Nodes),
				"passes":     passes,
				"iterations": res.Iterations,
			}).Info("curve bootstrapped")
			return res, nil
		}
		log.WithFields(logrus.Fields{"pass": passes, "max_change": maxChange}).Debug("pass finished")
	}
	passes = s.MaxPasses
	return nil, fmt.Errorf("Bootstrap: %w after %d passes", ErrNotConverged, s.MaxPasses)
}

// prepare links the helpers, orders them by pillar and lays out the curve
// nodes. All validation failures are reported together.
func prepare(c *curve.Piecewise, helpers []ratehelpers.Helper, guessRate float64) ([]ratehelpers.Helper, error) {
	if len(helpers) == 0 {
		return nil, ErrNoHelpers
	}
	var errs error
	for _, h := range helpers {
		if err := h.SetTermStructure(c); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, err := quote.Value(h.Quote()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s helper at %s: %w", h.Kind(), h.PillarDate().Format(utils.DateLayout), err))
		}
	}
	if errs != nil {
		return nil, errs
	}

	sorted := append([]ratehelpers.Helper(nil), helpers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PillarDate().Before(sorted[j].PillarDate())
	})
	ref := c.ReferenceDate()
	pillars := make([]time.Time, len(sorted))
	for i, h := range sorted {
		p := h.PillarDate()
		pillars[i] = p
		if !p.After(ref) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s helper pillar %s, reference %s",
				ErrPillarBeforeRef, h.Kind(), p.Format(utils.DateLayout), ref.Format(utils.DateLayout)))
		}
		if i > 0 && p.Equal(pillars[i-1]) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s and %s helpers share %s",
				ErrDuplicatePillar, sorted[i-1].Kind(), h.Kind(), p.Format(utils.DateLayout)))
		}
	}
	if errs != nil {
		return nil, errs
	}
	if err := c.SetNodes(pillars, guessRate); err != nil {
		return nil, err
	}
	return sorted, nil
}

// solvePillar solves node i of c against helper h. The discount factor is
// bracketed by the solver's forward-rate bounds over the segment from the
// previous node.
func solvePillar(c *curve.Piecewise, i int, h ratehelpers.Helper, s config.Solver) (float64, int, error) {
	prevDate, prevDF := c.Node(i - 1)
	pillar, guess := c.Node(i)
	dt := c.DayCount().YearFraction(prevDate, pillar)
	lo := prevDF * math.Exp(-s.MaxRate*dt)
	hi := prevDF * math.Exp(-s.MinRate*dt)

	objective := func(df float64) (float64, error) {
		c.SetDiscount(i, df)
		return h.QuoteError()
	}
	df, iters, err := solveNode(objective, guess, lo, hi, s)
	if err != nil {
		q, _ := quote.Value(h.Quote())
		c.SetDiscount(i, guess)
		return 0, iters, &CalibrationError{Pillar: pillar, Kind: h.Kind(), Quote: q, Err: err}
	}
	c.SetDiscount(i, df)
	return df, iters, nil
}
