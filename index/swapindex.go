package index

import (
	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/market"
)

// SwapIndex bundles the conventions of a standard fixed-vs-ibor swap rate.
type SwapIndex struct {
	FamilyName      string
	Tenor           calendar.Period
	FixingDays      int
	Calendar        calendar.CalendarID
	FixedFrequency  market.Frequency
	FixedConvention calendar.BusinessDayConvention
	FixedDayCount   market.DayCount
	EndOfMonth      bool
	Ibor            *IborIndex
}

// Name is the family name followed by the tenor, e.g. "EURSwapIsdaFixA10Y".
func (s *SwapIndex) Name() string {
	return s.FamilyName + s.Tenor.String()
}
