package calendar

import "time"

// isTargetHoliday covers the TARGET2 closing days: New Year, Good Friday,
// Easter Monday, Labour Day and the two Christmas days.
func isTargetHoliday(t time.Time) bool {
	y, m, d := t.Date()
	switch {
	case m == time.January && d == 1:
		return true
	case m == time.May && d == 1 && y >= 2000:
		return true
	case m == time.December && (d == 25 || d == 26):
		return true
	}
	if y < 2000 {
		return false
	}
	easter := easterSunday(y, t.Location())
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.Equal(easter.AddDate(0, 0, -2)) || day.Equal(easter.AddDate(0, 0, 1))
}

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}
