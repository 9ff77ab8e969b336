// Package schedule generates adjusted coupon date schedules.
package schedule

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/utils"
)

// Rule selects the direction dates are rolled from.
type Rule int

const (
	// Backward rolls from the termination date, leaving any stub at the front.
	Backward Rule = iota
	// Forward rolls from the effective date, leaving any stub at the back.
	Forward
)

// Params fully determines a schedule for a given holiday revision.
type Params struct {
	Effective             time.Time
	Termination           time.Time
	Tenor                 calendar.Period
	Calendar              calendar.CalendarID
	Convention            calendar.BusinessDayConvention
	TerminationConvention calendar.BusinessDayConvention
	Rule                  Rule
	EndOfMonth            bool
}

const cacheSize = 4096

type cacheKey struct {
	Params
	revision uint64
}

var cache, _ = lru.New[cacheKey, []time.Time](cacheSize)

// Generate returns the adjusted schedule dates, first to last. Consecutive
// pairs are the accrual periods.
func Generate(p Params) ([]time.Time, error) {
	if !p.Termination.After(p.Effective) {
		return nil, fmt.Errorf("schedule.Generate: termination %s not after effective %s",
			p.Termination.Format(utils.DateLayout), p.Effective.Format(utils.DateLayout))
	}
	if p.Tenor.Length < 0 {
		return nil, fmt.Errorf("schedule.Generate: negative tenor %s", p.Tenor)
	}
	key := cacheKey{Params: p, revision: calendar.Revision()}
	if dates, ok := cache.Get(key); ok {
		return append([]time.Time(nil), dates...), nil
	}

	unadjusted := rollDates(p)
	dates := make([]time.Time, 0, len(unadjusted))
	last := len(unadjusted) - 1
	eom := p.EndOfMonth && p.Tenor.Unit >= calendar.Months && isEndOfMonth(p)
	for i, d := range unadjusted {
		var adj time.Time
		switch {
		case i == 0:
			adj = calendar.AdjustWith(p.Calendar, d, p.Convention)
		case i == last:
			adj = calendar.AdjustWith(p.Calendar, d, p.TerminationConvention)
		case eom:
			adj = calendar.LastBusinessDayOfMonth(p.Calendar, d)
		default:
			adj = calendar.AdjustWith(p.Calendar, d, p.Convention)
		}
		if n := len(dates); n > 0 && !adj.After(dates[n-1]) {
			continue
		}
		dates = append(dates, adj)
	}
	if len(dates) < 2 {
		return nil, fmt.Errorf("schedule.Generate: degenerate schedule from %s to %s",
			p.Effective.Format(utils.DateLayout), p.Termination.Format(utils.DateLayout))
	}

	cache.Add(key, dates)
	return append([]time.Time(nil), dates...), nil
}

// rollDates steps i*tenor from the seed date so month-end clipping never
// drifts the schedule.
func rollDates(p Params) []time.Time {
	if p.Tenor.IsZero() {
		return []time.Time{p.Effective, p.Termination}
	}
	if p.Rule == Forward {
		out := []time.Time{p.Effective}
		for i := 1; ; i++ {
			d := calendar.AddPeriod(p.Effective, scale(p.Tenor, i))
			if !d.Before(p.Termination) {
				break
			}
			out = append(out, d)
		}
		return append(out, p.Termination)
	}

	out := []time.Time{p.Termination}
	for i := 1; ; i++ {
		d := calendar.AddPeriod(p.Termination, scale(p.Tenor, -i))
		if !d.After(p.Effective) {
			break
		}
		out = append(out, d)
	}
	out = append(out, p.Effective)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func isEndOfMonth(p Params) bool {
	seed := p.Termination
	if p.Rule == Forward {
		seed = p.Effective
	}
	return calendar.IsEndOfMonth(p.Calendar, seed)
}

func scale(p calendar.Period, n int) calendar.Period {
	return calendar.PeriodOf(p.Length*n, p.Unit)
}
