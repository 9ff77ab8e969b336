package market

import "github.com/meenmo/fwdcurve/calendar"

// LegType distinguishes floating vs fixed.
type LegType string

const (
	LegFloating LegType = "FLOATING"
	LegFixed    LegType = "FIXED"
)

// LegConvention captures the schedule and accrual settings of one swap leg.
type LegConvention struct {
	LegType               LegType
	DayCount              DayCount
	Tenor                 calendar.Period
	Calendar              calendar.CalendarID
	Convention            calendar.BusinessDayConvention
	TerminationConvention calendar.BusinessDayConvention
	EndOfMonth            bool
	PayDelayDays          int
}
