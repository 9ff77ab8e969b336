package curve

import (
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/utils"
)

// DiscountTable is an immutable curve over explicitly provided discount
// factors, log-linearly interpolated.
type DiscountTable struct {
	reference time.Time
	dayCount  market.DayCount
	dates     []time.Time
	times     []float64
	dfs       []float64
}

// NewDiscountTable builds a curve from dfs. The reference date is added with
// a discount factor of one when missing.
func NewDiscountTable(reference time.Time, dfs map[time.Time]float64, dc market.DayCount) (*DiscountTable, error) {
	dates := make([]time.Time, 0, len(dfs)+1)
	for d, df := range dfs {
		if df <= 0 {
			return nil, fmt.Errorf("NewDiscountTable: non-positive discount factor %v on %s", df, d.Format(utils.DateLayout))
		}
		if d.Before(reference) {
			return nil, fmt.Errorf("NewDiscountTable: node %s before reference date %s", d.Format(utils.DateLayout), reference.Format(utils.DateLayout))
		}
		dates = append(dates, d)
	}
	if _, ok := dfs[reference]; !ok {
		dates = append(dates, reference)
	}
	utils.SortDates(dates)

	c := &DiscountTable{reference: reference, dayCount: dc, dates: dates}
	c.times = make([]float64, len(dates))
	c.dfs = make([]float64, len(dates))
	for i, d := range dates {
		c.times[i] = dc.YearFraction(reference, d)
		if df, ok := dfs[d]; ok {
			c.dfs[i] = df
		} else {
			c.dfs[i] = 1
		}
	}
	return c, nil
}

func (c *DiscountTable) ReferenceDate() time.Time  { return c.reference }
func (c *DiscountTable) DayCount() market.DayCount { return c.dayCount }

// Dates returns a copy of the node dates.
func (c *DiscountTable) Dates() []time.Time {
	return append([]time.Time(nil), c.dates...)
}

func (c *DiscountTable) Discount(t time.Time) float64 {
	return logLinear(c.times, c.dfs, c.dates, t, c.dayCount.YearFraction(c.reference, t))
}

func (c *DiscountTable) ForwardRate(d1, d2 time.Time, dc market.DayCount, comp market.Compounding) float64 {
	return forwardRate(c, d1, d2, dc, comp)
}
