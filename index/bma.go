package index

import (
	"time"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/market"
)

// BMAIndex is a weekly municipal swap index fixed on Wednesdays.
type BMAIndex struct {
	Name     string
	Calendar calendar.CalendarID
	DayCount market.DayCount
	History  FixingSource

	forwarding *curve.Handle
}

var bmaTenor = calendar.PeriodOf(1, calendar.Weeks)

// ForwardingCurve returns the handle forecasts are read from. A nil handle
// reads as empty.
func (b *BMAIndex) ForwardingCurve() *curve.Handle {
	return b.forwarding
}

// WithForwardingCurve returns a copy of the index that forecasts off h.
func (b *BMAIndex) WithForwardingCurve(h *curve.Handle) *BMAIndex {
	out := *b
	out.forwarding = h
	return &out
}

// Tenor is always one week.
func (b *BMAIndex) Tenor() calendar.Period { return bmaTenor }

// ValueDate settles one business day after fixing.
func (b *BMAIndex) ValueDate(fixingDate time.Time) time.Time {
	return calendar.AddBusinessDays(b.Calendar, fixingDate, 1)
}

// MaturityDate is one week after valueDate.
func (b *BMAIndex) MaturityDate(valueDate time.Time) time.Time {
	return calendar.Advance(b.Calendar, valueDate, bmaTenor, calendar.Following, false)
}

// FixingSchedule lists the weekly fixing dates covering [start, end]: every
// Wednesday from the one on or before start to the one on or after end,
// rolled forward over holidays.
func (b *BMAIndex) FixingSchedule(start, end time.Time) []time.Time {
	first := calendar.PreviousWednesday(start)
	last := calendar.NextWednesday(end)
	var out []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 7) {
		adj := calendar.AdjustWith(b.Calendar, d, calendar.Following)
		if n := len(out); n > 0 && !adj.After(out[n-1]) {
			continue
		}
		out = append(out, adj)
	}
	return out
}

// Fixing returns the weekly rate fixed on fixingDate as seen on today.
func (b *BMAIndex) Fixing(fixingDate, today time.Time) (float64, error) {
	return fixing(bmaForecaster{b}, fixingDate, today)
}

type bmaForecaster struct{ *BMAIndex }

func (f bmaForecaster) name() string          { return f.Name }
func (f bmaForecaster) history() FixingSource { return f.History }
func (f bmaForecaster) forecast(fixingDate time.Time) (float64, error) {
	c, err := forwardingCurve(f.forwarding, f.Name)
	if err != nil {
		return 0, err
	}
	start := f.ValueDate(fixingDate)
	return c.ForwardRate(start, f.MaturityDate(start), f.DayCount, market.Simple), nil
}
