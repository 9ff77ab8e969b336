package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/fwdcurve/utils"
)

// TimeUnit is the unit of a Period.
type TimeUnit int

const (
	Days TimeUnit = iota
	Weeks
	Months
	Years
)

// Period is a signed length of time such as 3M or 10Y.
type Period struct {
	Length int
	Unit   TimeUnit
}

// PeriodOf builds a Period.
func PeriodOf(n int, unit TimeUnit) Period {
	return Period{Length: n, Unit: unit}
}

// ParsePeriod reads tenors like "2D", "1W", "6M", "10Y".
func ParsePeriod(s string) (Period, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Period{}, fmt.Errorf("calendar: invalid period %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Period{}, fmt.Errorf("calendar: invalid period %q: %w", s, err)
	}
	switch s[len(s)-1] {
	case 'D':
		return Period{n, Days}, nil
	case 'W':
		return Period{n, Weeks}, nil
	case 'M':
		return Period{n, Months}, nil
	case 'Y':
		return Period{n, Years}, nil
	}
	return Period{}, fmt.Errorf("calendar: invalid period unit in %q", s)
}

// MustParsePeriod is ParsePeriod for literals known to be valid.
func MustParsePeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// IsZero reports a zero-length period.
func (p Period) IsZero() bool { return p.Length == 0 }

// Months converts month and year periods to months.
func (p Period) Months() (int, bool) {
	switch p.Unit {
	case Months:
		return p.Length, true
	case Years:
		return 12 * p.Length, true
	}
	return 0, false
}

// Equal compares periods after normalizing 12M to 1Y and 7D to 1W.
func (p Period) Equal(q Period) bool {
	if p.IsZero() || q.IsZero() {
		return p.IsZero() && q.IsZero()
	}
	if pm, ok := p.Months(); ok {
		qm, ok := q.Months()
		return ok && pm == qm
	}
	return p.days() == q.days() && p.days() != 0
}

func (p Period) days() int {
	switch p.Unit {
	case Days:
		return p.Length
	case Weeks:
		return 7 * p.Length
	}
	return 0
}

func (p Period) String() string {
	return strconv.Itoa(p.Length) + [...]string{"D", "W", "M", "Y"}[p.Unit]
}

// AddPeriod adds p to t without any holiday adjustment. Month arithmetic
// clips to the end of the target month.
func AddPeriod(t time.Time, p Period) time.Time {
	switch p.Unit {
	case Days:
		return t.AddDate(0, 0, p.Length)
	case Weeks:
		return t.AddDate(0, 0, 7*p.Length)
	case Months:
		return utils.AddMonth(t, p.Length)
	default:
		return utils.AddMonth(t, 12*p.Length)
	}
}
