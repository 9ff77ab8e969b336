package ratehelpers

import (
	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
)

// iborFields are the explicit-form parameters a bound index would otherwise
// supply.
type iborFields struct {
	tenor      calendar.Period
	fixingDays int
	calendar   calendar.CalendarID
	convention calendar.BusinessDayConvention
	endOfMonth bool
	dayCount   market.DayCount
}

// resolveIbor returns idx when given, after checking that any explicit tenor,
// fixing lag or day count agrees with it, and otherwise builds an index from f.
func resolveIbor(kind Kind, idx *index.IborIndex, f iborFields) (*index.IborIndex, error) {
	if idx != nil {
		if !f.tenor.IsZero() && !f.tenor.Equal(idx.Tenor) {
			return nil, inconsistent(kind, "tenor", "%s conflicts with index %s tenor %s", f.tenor, idx.Name, idx.Tenor)
		}
		if f.fixingDays != 0 && f.fixingDays != idx.FixingDays {
			return nil, inconsistent(kind, "fixing days", "%d conflicts with index %s fixing days %d", f.fixingDays, idx.Name, idx.FixingDays)
		}
		if f.dayCount != "" && f.dayCount != idx.DayCount {
			return nil, inconsistent(kind, "day count", "%s conflicts with index %s day count %s", f.dayCount, idx.Name, idx.DayCount)
		}
		return idx, nil
	}
	switch {
	case f.tenor.Length <= 0:
		return nil, inconsistent(kind, "tenor", "positive tenor required, got %s", f.tenor)
	case f.fixingDays < 0:
		return nil, inconsistent(kind, "fixing days", "negative fixing days %d", f.fixingDays)
	case f.dayCount == "":
		return nil, inconsistent(kind, "day count", "day count required")
	}
	return index.NewIborIndex(kind.String()+f.tenor.String(), f.tenor, f.fixingDays, f.calendar, f.convention, f.endOfMonth, f.dayCount, nil), nil
}
