package calendar

import "time"

// IsIMMDate reports whether t is an IMM date (third Wednesday of the month).
// With mainCycle only March, June, September and December qualify.
func IsIMMDate(t time.Time, mainCycle bool) bool {
	if t.Weekday() != time.Wednesday || t.Day() < 15 || t.Day() > 21 {
		return false
	}
	return !mainCycle || isQuarterMonth(t.Month())
}

// IsASXDate reports whether t is an ASX date (second Friday of the month).
func IsASXDate(t time.Time, mainCycle bool) bool {
	if t.Weekday() != time.Friday || t.Day() < 8 || t.Day() > 14 {
		return false
	}
	return !mainCycle || isQuarterMonth(t.Month())
}

// NextIMMDate returns the first IMM date strictly after t.
func NextIMMDate(t time.Time, mainCycle bool) time.Time {
	return nextMatching(t, func(d time.Time) bool { return IsIMMDate(d, mainCycle) })
}

// NextASXDate returns the first ASX date strictly after t.
func NextASXDate(t time.Time, mainCycle bool) time.Time {
	return nextMatching(t, func(d time.Time) bool { return IsASXDate(d, mainCycle) })
}

// PreviousWednesday returns the latest Wednesday on or before t.
func PreviousWednesday(t time.Time) time.Time {
	back := (int(t.Weekday()) - int(time.Wednesday) + 7) % 7
	return t.AddDate(0, 0, -back)
}

// NextWednesday returns the earliest Wednesday on or after t.
func NextWednesday(t time.Time) time.Time {
	fwd := (int(time.Wednesday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, fwd)
}

func nextMatching(t time.Time, ok func(time.Time) bool) time.Time {
	d := t.AddDate(0, 0, 1)
	for !ok(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func isQuarterMonth(m time.Month) bool {
	return m == time.March || m == time.June || m == time.September || m == time.December
}
