// Package curve provides discount curves, the relinkable handle that helpers
// observe, and the piecewise curve that the bootstrapper fills in.
package curve

import (
	"time"

	"github.com/meenmo/fwdcurve/market"
)

// Curve is a discount curve that can also quote forward rates.
type Curve interface {
	ReferenceDate() time.Time
	DayCount() market.DayCount
	Discount(t time.Time) float64
	ForwardRate(d1, d2 time.Time, dc market.DayCount, comp market.Compounding) float64
}

type discounter interface {
	Discount(t time.Time) float64
}

// forwardRate implements Curve.ForwardRate from discount factors.
func forwardRate(c discounter, d1, d2 time.Time, dc market.DayCount, comp market.Compounding) float64 {
	tau := dc.YearFraction(d1, d2)
	if tau <= 0 {
		return 0
	}
	return market.ImpliedRate(c.Discount(d1)/c.Discount(d2), tau, comp)
}

// ZeroRate is the continuously compounded zero rate to t on the curve's own
// time axis.
func ZeroRate(c Curve, t time.Time) float64 {
	tau := c.DayCount().YearFraction(c.ReferenceDate(), t)
	if tau <= 0 {
		return 0
	}
	return market.ImpliedRate(1/c.Discount(t), tau, market.Continuous)
}
