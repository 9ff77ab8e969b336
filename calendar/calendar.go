package calendar

import (
	"sync"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	TARGET       CalendarID = "TARGET"
	JPN          CalendarID = "JPN"
	USD          CalendarID = "USD"
	KRW          CalendarID = "KRW"
	WeekendsOnly CalendarID = "WEEKENDS"
)

var (
	holidayMu sync.RWMutex
	revision  uint64
	holidays  = map[CalendarID]map[string]struct{}{
		TARGET: {},
		JPN:    {},
		USD:    {},
		KRW:    {},
	}
)

// AddHolidays registers extra holidays on a calendar. Dates are compared by
// calendar day only.
func AddHolidays(cal CalendarID, dates ...time.Time) {
	holidayMu.Lock()
	defer holidayMu.Unlock()
	set, ok := holidays[cal]
	if !ok {
		set = make(map[string]struct{}, len(dates))
		holidays[cal] = set
	}
	for _, d := range dates {
		set[d.Format("2006-01-02")] = struct{}{}
	}
	revision++
}

// RemoveHolidays drops previously registered holidays.
func RemoveHolidays(cal CalendarID, dates ...time.Time) {
	holidayMu.Lock()
	defer holidayMu.Unlock()
	set := holidays[cal]
	for _, d := range dates {
		delete(set, d.Format("2006-01-02"))
	}
	revision++
}

// Revision counts holiday registry changes. Anything derived from calendar
// adjustments stays valid only while it is unchanged.
func Revision() uint64 {
	holidayMu.RLock()
	defer holidayMu.RUnlock()
	return revision
}

func isHoliday(cal CalendarID, t time.Time) bool {
	if cal == TARGET && isTargetHoliday(t) {
		return true
	}
	holidayMu.RLock()
	defer holidayMu.RUnlock()
	_, ok := holidays[cal][t.Format("2006-01-02")]
	return ok
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	return AdjustWith(cal, t, Following)
}

// AdjustWith moves t onto a business day according to conv.
func AdjustWith(cal CalendarID, t time.Time, conv BusinessDayConvention) time.Time {
	switch conv {
	case Unadjusted:
		return t
	case Following, ModifiedFollowing:
		d := t
		for !IsBusinessDay(cal, d) {
			d = d.AddDate(0, 0, 1)
		}
		if conv == ModifiedFollowing && d.Month() != t.Month() {
			return AdjustWith(cal, t, Preceding)
		}
		return d
	case Preceding, ModifiedPreceding:
		d := t
		for !IsBusinessDay(cal, d) {
			d = d.AddDate(0, 0, -1)
		}
		if conv == ModifiedPreceding && d.Month() != t.Month() {
			return AdjustWith(cal, t, Following)
		}
		return d
	default:
		return t
	}
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// Advance moves t by p. Day periods count business days; longer periods
// roll the calendar date and then adjust with conv. With eom set, a start on
// the last business day of its month lands on the last business day of the
// target month.
func Advance(cal CalendarID, t time.Time, p Period, conv BusinessDayConvention, eom bool) time.Time {
	switch p.Unit {
	case Days:
		if p.Length == 0 {
			return AdjustWith(cal, t, conv)
		}
		return AddBusinessDays(cal, t, p.Length)
	case Weeks:
		return AdjustWith(cal, t.AddDate(0, 0, 7*p.Length), conv)
	default:
		d := AddPeriod(t, p)
		if eom && IsEndOfMonth(cal, t) {
			return LastBusinessDayOfMonth(cal, d)
		}
		return AdjustWith(cal, d, conv)
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	last := time.Date(t.Year(), t.Month(), daysInMonth(t.Year(), t.Month()), 0, 0, 0, 0, t.Location())
	return AdjustWith(cal, last, Preceding)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal CalendarID, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}
