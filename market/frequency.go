package market

import (
	"fmt"

	"github.com/meenmo/fwdcurve/calendar"
)

// Frequency enumerates payment/reset frequencies in months.
type Frequency int

const (
	FreqAnnual    Frequency = 12
	FreqSemi      Frequency = 6
	FreqQuarterly Frequency = 3
	FreqMonthly   Frequency = 1
	FreqOnce      Frequency = 0
)

// Period returns the coupon period implied by the frequency. FreqOnce maps to
// the zero period.
func (f Frequency) Period() calendar.Period {
	return calendar.PeriodOf(int(f), calendar.Months)
}

// ParseFrequency reads "ANNUAL", "SEMI", "QUARTERLY", "MONTHLY" or a tenor such as "6M".
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "ANNUAL", "Annual":
		return FreqAnnual, nil
	case "SEMI", "SEMIANNUAL", "Semiannual":
		return FreqSemi, nil
	case "QUARTERLY", "Quarterly":
		return FreqQuarterly, nil
	case "MONTHLY", "Monthly":
		return FreqMonthly, nil
	case "ONCE", "Once":
		return FreqOnce, nil
	}
	p, err := calendar.ParsePeriod(s)
	if err != nil {
		return 0, fmt.Errorf("market: unknown frequency %q", s)
	}
	m, ok := p.Months()
	if !ok || m <= 0 || 12%m != 0 {
		return 0, fmt.Errorf("market: frequency %q must divide a year", s)
	}
	return Frequency(m), nil
}
