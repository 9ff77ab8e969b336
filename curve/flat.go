package curve

import (
	"time"

	"github.com/meenmo/fwdcurve/market"
)

// FlatForward is a curve with a single rate at every horizon.
type FlatForward struct {
	reference   time.Time
	rate        float64
	dayCount    market.DayCount
	compounding market.Compounding
}

// NewFlatForward builds a flat curve quoted with the given day count and compounding.
func NewFlatForward(reference time.Time, rate float64, dc market.DayCount, comp market.Compounding) *FlatForward {
	return &FlatForward{reference: reference, rate: rate, dayCount: dc, compounding: comp}
}

func (f *FlatForward) ReferenceDate() time.Time  { return f.reference }
func (f *FlatForward) DayCount() market.DayCount { return f.dayCount }

func (f *FlatForward) Discount(t time.Time) float64 {
	return 1 / market.CompoundFactor(f.rate, f.dayCount.YearFraction(f.reference, t), f.compounding)
}

func (f *FlatForward) ForwardRate(d1, d2 time.Time, dc market.DayCount, comp market.Compounding) float64 {
	return forwardRate(f, d1, d2, dc, comp)
}
