// Package swaps holds the calibration swaps that rate helpers price: a
// vanilla fixed-vs-ibor swap and a BMA-vs-ibor basis swap.
package swaps

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/utils"
)

var (
	// ErrNilCurve is returned when a discounting handle is missing.
	ErrNilCurve = errors.New("nil curve")
	// ErrNilIndex is returned when a floating leg has no index.
	ErrNilIndex = errors.New("nil index")
)

// FixedCoupon is one fixed-rate accrual period on a unit notional.
type FixedCoupon struct {
	StartDate time.Time
	EndDate   time.Time
	PayDate   time.Time
	Accrual   float64
}

// FloatingCoupon is one ibor accrual period, fixed in advance.
type FloatingCoupon struct {
	StartDate       time.Time
	EndDate         time.Time
	PayDate         time.Time
	FixingDate      time.Time
	FixingValueDate time.Time
	FixingEndDate   time.Time
	Accrual         float64
}

// BMACoupon pays the day-weighted average of weekly BMA fixings.
type BMACoupon struct {
	StartDate   time.Time
	EndDate     time.Time
	PayDate     time.Time
	Accrual     float64
	FixingDates []time.Time
}

func payDate(leg market.LegConvention, end time.Time) time.Time {
	if leg.PayDelayDays == 0 {
		return end
	}
	return calendar.AddBusinessDays(leg.Calendar, end, leg.PayDelayDays)
}

// FixedLeg turns schedule dates into fixed coupons.
func FixedLeg(dates []time.Time, leg market.LegConvention) []FixedCoupon {
	out := make([]FixedCoupon, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		out = append(out, FixedCoupon{
			StartDate: dates[i-1],
			EndDate:   dates[i],
			PayDate:   payDate(leg, dates[i]),
			Accrual:   leg.DayCount.YearFraction(dates[i-1], dates[i]),
		})
	}
	return out
}

// IborLeg turns schedule dates into ibor coupons. Each coupon fixes
// idx.FixingDays before its start and forecasts over the index tenor from
// the fixing's value date.
func IborLeg(dates []time.Time, idx *index.IborIndex, leg market.LegConvention) []FloatingCoupon {
	out := make([]FloatingCoupon, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		fixing := idx.FixingDate(dates[i-1])
		value := idx.ValueDate(fixing)
		out = append(out, FloatingCoupon{
			StartDate:       dates[i-1],
			EndDate:         dates[i],
			PayDate:         payDate(leg, dates[i]),
			FixingDate:      fixing,
			FixingValueDate: value,
			FixingEndDate:   idx.MaturityDate(value),
			Accrual:         leg.DayCount.YearFraction(dates[i-1], dates[i]),
		})
	}
	return out
}

// BMALeg turns schedule dates into averaging BMA coupons. The fixing window
// of each coupon opens two business days before its accrual start.
func BMALeg(dates []time.Time, bma *index.BMAIndex, leg market.LegConvention) []BMACoupon {
	out := make([]BMACoupon, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		fixingStart := calendar.Advance(bma.Calendar, dates[i-1], calendar.PeriodOf(-2, calendar.Days), calendar.Preceding, false)
		out = append(out, BMACoupon{
			StartDate:   dates[i-1],
			EndDate:     dates[i],
			PayDate:     payDate(leg, dates[i]),
			Accrual:     leg.DayCount.YearFraction(dates[i-1], dates[i]),
			FixingDates: bma.FixingSchedule(fixingStart, dates[i]),
		})
	}
	return out
}

// Rate is the coupon's ibor fixing as seen on today.
func (c FloatingCoupon) Rate(idx *index.IborIndex, today time.Time) (float64, error) {
	return idx.Fixing(c.FixingDate, today)
}

// Rate averages the weekly fixings, each weighted by the calendar days it is
// in force within [StartDate, EndDate).
func (c BMACoupon) Rate(bma *index.BMAIndex, today time.Time) (float64, error) {
	fixings := c.FixingDates
	if len(fixings) == 0 {
		return 0, fmt.Errorf("BMACoupon.Rate: empty fixing schedule for %s", c.StartDate.Format(utils.DateLayout))
	}
	if bma.ValueDate(fixings[0]).After(c.StartDate) {
		return 0, fmt.Errorf("BMACoupon.Rate: first fixing %s settles after period start %s",
			fixings[0].Format(utils.DateLayout), c.StartDate.Format(utils.DateLayout))
	}
	if bma.ValueDate(fixings[len(fixings)-1]).Before(c.EndDate) {
		return 0, fmt.Errorf("BMACoupon.Rate: last fixing %s settles before period end %s",
			fixings[len(fixings)-1].Format(utils.DateLayout), c.EndDate.Format(utils.DateLayout))
	}

	var sum, days float64
	d1 := c.StartDate
	for i := 0; i < len(fixings)-1; i++ {
		value := bma.ValueDate(fixings[i])
		next := bma.ValueDate(fixings[i+1])
		if !fixings[i].Before(c.EndDate) || !value.Before(c.EndDate) {
			break
		}
		if fixings[i+1].Before(c.StartDate) || !next.After(c.StartDate) {
			continue
		}
		d2 := next
		if d2.After(c.EndDate) {
			d2 = c.EndDate
		}
		rate, err := bma.Fixing(fixings[i], today)
		if err != nil {
			return 0, fmt.Errorf("BMACoupon.Rate: %w", err)
		}
		n := utils.Days(d1, d2)
		sum += rate * n
		days += n
		d1 = d2
	}
	total := utils.Days(c.StartDate, c.EndDate)
	if days != total {
		return 0, fmt.Errorf("BMACoupon.Rate: averaged %v of %v days", days, total)
	}
	return sum / total, nil
}

// discountCurve resolves h for pricing as of its reference date.
func discountCurve(h *curve.Handle) (curve.Curve, error) {
	if h == nil {
		return nil, ErrNilCurve
	}
	c, err := h.Curve()
	if err != nil {
		return nil, fmt.Errorf("discounting curve: %w", err)
	}
	return c, nil
}
