package curve

import (
	"fmt"
	"sync"
	"time"

	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/utils"
)

// Piecewise is a log-linear discount curve whose node values are written by
// the bootstrapper. Node zero is the reference date with a discount factor
// of one.
type Piecewise struct {
	mu        sync.RWMutex
	reference time.Time
	dayCount  market.DayCount
	dates     []time.Time
	times     []float64
	dfs       []float64
}

// NewPiecewise returns a curve holding only its reference node.
func NewPiecewise(reference time.Time, dc market.DayCount) *Piecewise {
	return &Piecewise{
		reference: reference,
		dayCount:  dc,
		dates:     []time.Time{reference},
		times:     []float64{0},
		dfs:       []float64{1},
	}
}

// SetNodes replaces the pillar dates after the reference date. Pillars must
// be strictly increasing and after the reference date. Discount factors are
// seeded from a flat continuously compounded guess rate.
func (c *Piecewise) SetNodes(pillars []time.Time, guessRate float64) error {
	dates := make([]time.Time, 0, len(pillars)+1)
	dates = append(dates, c.reference)
	for i, p := range pillars {
		if !p.After(dates[i]) {
			return fmt.Errorf("Piecewise.SetNodes: pillar %s not after %s", p.Format(utils.DateLayout), dates[i].Format(utils.DateLayout))
		}
		dates = append(dates, p)
	}
	times := make([]float64, len(dates))
	dfs := make([]float64, len(dates))
	for i, d := range dates {
		times[i] = c.dayCount.YearFraction(c.reference, d)
		dfs[i] = 1 / market.CompoundFactor(guessRate, times[i], market.Continuous)
	}

	c.mu.Lock()
	c.dates, c.times, c.dfs = dates, times, dfs
	c.mu.Unlock()
	return nil
}

// SetDiscount overwrites the discount factor of node i (i >= 1).
func (c *Piecewise) SetDiscount(i int, df float64) {
	c.mu.Lock()
	c.dfs[i] = df
	c.mu.Unlock()
}

// Node returns the date and discount factor of node i.
func (c *Piecewise) Node(i int) (time.Time, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dates[i], c.dfs[i]
}

// NodeCount includes the reference node.
func (c *Piecewise) NodeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dates)
}

// Snapshot freezes the current nodes into an immutable DiscountTable.
func (c *Piecewise) Snapshot() *DiscountTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &DiscountTable{
		reference: c.reference,
		dayCount:  c.dayCount,
		dates:     append([]time.Time(nil), c.dates...),
		times:     append([]float64(nil), c.times...),
		dfs:       append([]float64(nil), c.dfs...),
	}
}

func (c *Piecewise) ReferenceDate() time.Time  { return c.reference }
func (c *Piecewise) DayCount() market.DayCount { return c.dayCount }

func (c *Piecewise) Discount(t time.Time) float64 {
	tt := c.dayCount.YearFraction(c.reference, t)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return logLinear(c.times, c.dfs, c.dates, t, tt)
}

func (c *Piecewise) ForwardRate(d1, d2 time.Time, dc market.DayCount, comp market.Compounding) float64 {
	return forwardRate(c, d1, d2, dc, comp)
}
