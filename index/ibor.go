package index

import (
	"time"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/market"
)

// IborIndex is a term rate index such as EURIBOR 6M.
type IborIndex struct {
	Name       string
	Tenor      calendar.Period
	FixingDays int
	Calendar   calendar.CalendarID
	Convention calendar.BusinessDayConvention
	EndOfMonth bool
	DayCount   market.DayCount
	History    FixingSource

	forwarding *curve.Handle
}

// ForwardingCurve returns the handle forecasts are read from. A nil handle
// reads as empty.
func (i *IborIndex) ForwardingCurve() *curve.Handle {
	return i.forwarding
}

// WithForwardingCurve returns a copy of the index that forecasts off h.
func (i *IborIndex) WithForwardingCurve(h *curve.Handle) *IborIndex {
	out := *i
	out.forwarding = h
	return &out
}

// ValueDate is the start of the deposit period fixed on fixingDate.
func (i *IborIndex) ValueDate(fixingDate time.Time) time.Time {
	return calendar.Advance(i.Calendar, fixingDate, calendar.PeriodOf(i.FixingDays, calendar.Days), calendar.Following, false)
}

// FixingDate is the fixing that sets a period starting on valueDate.
func (i *IborIndex) FixingDate(valueDate time.Time) time.Time {
	return calendar.Advance(i.Calendar, valueDate, calendar.PeriodOf(-i.FixingDays, calendar.Days), calendar.Preceding, false)
}

// MaturityDate is the end of the deposit period starting on valueDate.
func (i *IborIndex) MaturityDate(valueDate time.Time) time.Time {
	return calendar.Advance(i.Calendar, valueDate, i.Tenor, i.Convention, i.EndOfMonth)
}

// Fixing returns the index value fixed on fixingDate as seen on today.
func (i *IborIndex) Fixing(fixingDate, today time.Time) (float64, error) {
	return fixing(iborForecaster{i}, fixingDate, today)
}

// Forecast projects the simple rate over [valueDate, MaturityDate(valueDate)].
func (i *IborIndex) Forecast(valueDate time.Time) (float64, error) {
	c, err := forwardingCurve(i.forwarding, i.Name)
	if err != nil {
		return 0, err
	}
	return c.ForwardRate(valueDate, i.MaturityDate(valueDate), i.DayCount, market.Simple), nil
}

type iborForecaster struct{ *IborIndex }

func (f iborForecaster) name() string          { return f.Name }
func (f iborForecaster) history() FixingSource { return f.History }
func (f iborForecaster) forecast(fixingDate time.Time) (float64, error) {
	return f.Forecast(f.ValueDate(fixingDate))
}
