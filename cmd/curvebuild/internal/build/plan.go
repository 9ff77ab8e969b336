package build

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/meenmo/fwdcurve/bootstrap"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/settings"
	"github.com/meenmo/fwdcurve/utils"
)

// Options supply market data missing from the input file. All are optional;
// a nil Logger logs to the standard logger.
type Options struct {
	Quotes  QuoteSource
	Fixings FixingLoader
	Logger  logrus.FieldLogger
}

// Plan is a set of curves ready to bootstrap. Curves are grouped in levels;
// a curve only depends on curves of earlier levels.
type Plan struct {
	CurveDate time.Time
	Settings  *settings.Settings

	curves  []*plannedCurve
	levels  [][]*plannedCurve
	handles map[string]*curve.Handle
}

type plannedCurve struct {
	name        string
	dayCount    market.DayCount
	handle      *curve.Handle
	instruments []Instrument
	helpers     []ratehelpers.Helper
	deps        []string
	result      *bootstrap.Result
	solved      curve.Curve
}

// NewPlan builds every helper of in. Bad inline fixing dates and instrument
// errors are reported together.
func NewPlan(ctx context.Context, in Input, opts Options) (*Plan, error) {
	curveDate, err := utils.ParseDate(in.CurveDate)
	if err != nil {
		return nil, fmt.Errorf("curve_date: %w", err)
	}
	p := &Plan{CurveDate: curveDate, Settings: settings.New(curveDate)}

	handles := make(map[string]*curve.Handle, len(in.Curves))
	for _, ci := range in.Curves {
		if ci.Name == "" {
			return nil, fmt.Errorf("curve without a name")
		}
		if _, dup := handles[ci.Name]; dup {
			return nil, fmt.Errorf("duplicate curve %q", ci.Name)
		}
		handles[ci.Name] = curve.NewHandle(nil)
	}
	p.handles = handles

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	fixings := make(map[string]index.FixingSource)
	errs := checkFixings(in.Fixings)
	for _, ci := range in.Curves {
		dc := market.Act365F
		if ci.DayCount != "" {
			if dc, err = market.ParseDayCount(ci.DayCount); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("curve %s: %w", ci.Name, err))
				continue
			}
		}
		pc := &plannedCurve{name: ci.Name, dayCount: dc, handle: handles[ci.Name], instruments: ci.Instruments}
		b := &builder{
			ctx:       ctx,
			curveDate: curveDate,
			curveName: ci.Name,
			settings:  p.Settings,
			handles:   handles,
			quotes:    opts.Quotes,
			loader:    opts.Fixings,
			inline:    in.Fixings,
			fixings:   fixings,
			log:       log,
		}
		for i, inst := range ci.Instruments {
			h, err := b.helper(inst)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("curve %s: instrument %s: %w", ci.Name, instrumentLabel(i, inst), err))
				continue
			}
			pc.helpers = append(pc.helpers, h)
		}
		pc.deps = dependencies(ci)
		p.curves = append(p.curves, pc)
	}
	if errs != nil {
		return nil, errs
	}
	if p.levels, err = levels(p.curves); err != nil {
		return nil, err
	}
	return p, nil
}

// checkFixings rejects inline fixing keys that are not YYYY-MM-DD dates.
func checkFixings(fixings map[string]map[string]float64) error {
	var errs error
	for _, name := range slices.Sorted(maps.Keys(fixings)) {
		for _, key := range slices.Sorted(maps.Keys(fixings[name])) {
			if _, err := utils.ParseDate(key); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("fixings %s: %w", name, err))
			}
		}
	}
	return errs
}

func instrumentLabel(i int, inst Instrument) string {
	if inst.ID != "" {
		return inst.ID
	}
	return fmt.Sprintf("#%d (%s)", i+1, inst.Type)
}

// dependencies lists the other curves a curve's instruments read.
func dependencies(ci CurveInput) []string {
	seen := map[string]bool{ci.Name: true, "": true}
	var deps []string
	for _, inst := range ci.Instruments {
		for _, name := range []string{inst.DiscountCurve, inst.IndexCurve, inst.CollateralCurve} {
			if !seen[name] {
				seen[name] = true
				deps = append(deps, name)
			}
		}
	}
	return deps
}

// levels orders curves topologically, keeping input order within a level.
func levels(curves []*plannedCurve) ([][]*plannedCurve, error) {
	pending := make(map[string]int, len(curves))
	dependents := make(map[string][]string)
	for _, c := range curves {
		pending[c.name] = len(c.deps)
		for _, d := range c.deps {
			dependents[d] = append(dependents[d], c.name)
		}
	}

	var out [][]*plannedCurve
	done := 0
	for done < len(curves) {
		var level []*plannedCurve
		for _, c := range curves {
			if pending[c.name] == 0 {
				level = append(level, c)
			}
		}
		if len(level) == 0 {
			return nil, fmt.Errorf("curves depend on each other in a cycle")
		}
		for _, c := range level {
			pending[c.name] = -1
			for _, d := range dependents[c.name] {
				pending[d]--
			}
		}
		done += len(level)
		out = append(out, level)
	}
	return out, nil
}

// Run bootstraps each level concurrently and links every finished curve to
// its handle before the next level starts.
func (p *Plan) Run(ctx context.Context, opts bootstrap.Options) (*Output, error) {
	for _, level := range p.levels {
		jobs := make([]bootstrap.Job, len(level))
		for i, c := range level {
			for _, d := range c.deps {
				if p.handles[d].Empty() {
					return nil, fmt.Errorf("curve %s: curve %s it depends on is not solved", c.name, d)
				}
			}
			jobs[i] = bootstrap.Job{
				Name:    c.name,
				Curve:   curve.NewPiecewise(p.CurveDate, c.dayCount),
				Helpers: c.helpers,
			}
		}
		results, err := bootstrap.RunJobs(ctx, jobs, opts)
		if err != nil {
			return nil, err
		}
		for i, c := range level {
			c.result = results[i]
			c.solved = jobs[i].Curve.Snapshot()
			c.handle.Link(c.solved)
		}
	}
	return p.output()
}

// Pillars reports the dates of every helper without bootstrapping.
func (p *Plan) Pillars() []PillarOutput {
	var out []PillarOutput
	for _, c := range p.curves {
		for i, h := range c.helpers {
			out = append(out, PillarOutput{
				Curve:          c.name,
				ID:             c.instruments[i].ID,
				Type:           h.Kind().String(),
				Earliest:       h.EarliestDate().Format(utils.DateLayout),
				Maturity:       h.MaturityDate().Format(utils.DateLayout),
				LatestRelevant: h.LatestRelevantDate().Format(utils.DateLayout),
				Pillar:         h.PillarDate().Format(utils.DateLayout),
				Latest:         h.LatestDate().Format(utils.DateLayout),
			})
		}
	}
	return out
}
