package index

import (
	"fmt"
	"strings"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/market"
)

// NewIborIndex builds an ibor index forecasting off h, which may be nil.
func NewIborIndex(name string, tenor calendar.Period, fixingDays int, cal calendar.CalendarID,
	conv calendar.BusinessDayConvention, eom bool, dc market.DayCount, h *curve.Handle) *IborIndex {
	return &IborIndex{
		Name:       name,
		Tenor:      tenor,
		FixingDays: fixingDays,
		Calendar:   cal,
		Convention: conv,
		EndOfMonth: eom,
		DayCount:   dc,
		forwarding: h,
	}
}

// Euribor: TARGET, T+2, Modified Following, ACT/360, end-of-month for monthly tenors.
func Euribor(tenor calendar.Period, h *curve.Handle) *IborIndex {
	_, monthly := tenor.Months()
	return NewIborIndex("EURIBOR"+tenor.String(), tenor, 2, calendar.TARGET, calendar.ModifiedFollowing, monthly, market.Act360, h)
}

func Euribor3M(h *curve.Handle) *IborIndex { return Euribor(calendar.PeriodOf(3, calendar.Months), h) }
func Euribor6M(h *curve.Handle) *IborIndex { return Euribor(calendar.PeriodOf(6, calendar.Months), h) }

// Tibor: Tokyo, T+2, Modified Following, ACT/365F.
func Tibor(tenor calendar.Period, h *curve.Handle) *IborIndex {
	return NewIborIndex("TIBOR"+tenor.String(), tenor, 2, calendar.JPN, calendar.ModifiedFollowing, false, market.Act365F, h)
}

// CD91 is the KRW 91-day certificate of deposit rate: Seoul, T+1, ACT/365F.
func CD91(h *curve.Handle) *IborIndex {
	return NewIborIndex("CD91D", calendar.PeriodOf(3, calendar.Months), 1, calendar.KRW, calendar.ModifiedFollowing, false, market.Act365F, h)
}

// USDLibor: New York, T+2, Modified Following, ACT/360.
func USDLibor(tenor calendar.Period, h *curve.Handle) *IborIndex {
	_, monthly := tenor.Months()
	return NewIborIndex("USDLIBOR"+tenor.String(), tenor, 2, calendar.USD, calendar.ModifiedFollowing, monthly, market.Act360, h)
}

// SIFMA is the weekly USD municipal swap index.
func SIFMA(h *curve.Handle) *BMAIndex {
	return &BMAIndex{Name: "SIFMA", Calendar: calendar.USD, DayCount: market.ActAct, forwarding: h}
}

// EURSwapIsdaFixA is the annual 30/360 EUR swap rate against EURIBOR 6M
// (3M for the one-year tenor).
func EURSwapIsdaFixA(tenor calendar.Period, h *curve.Handle) *SwapIndex {
	ibor := Euribor6M(h)
	if tenor.Equal(calendar.PeriodOf(1, calendar.Years)) {
		ibor = Euribor3M(h)
	}
	return &SwapIndex{
		FamilyName:      "EURSwapIsdaFixA",
		Tenor:           tenor,
		FixingDays:      2,
		Calendar:        calendar.TARGET,
		FixedFrequency:  market.FreqAnnual,
		FixedConvention: calendar.ModifiedFollowing,
		FixedDayCount:   market.Dc30360,
		Ibor:            ibor,
	}
}

// Lookup resolves an ibor index by name, e.g. "EURIBOR6M", "TIBOR3M" or "CD91D".
func Lookup(name string, h *curve.Handle) (*IborIndex, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "CD91D" || n == "CD91" {
		return CD91(h), nil
	}
	for prefix, build := range map[string]func(calendar.Period, *curve.Handle) *IborIndex{
		"EURIBOR":  Euribor,
		"TIBOR":    Tibor,
		"USDLIBOR": USDLibor,
	} {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		tenor, err := calendar.ParsePeriod(strings.TrimPrefix(n, prefix))
		if err != nil {
			return nil, fmt.Errorf("index.Lookup: %q: %w", name, err)
		}
		return build(tenor, h), nil
	}
	return nil, fmt.Errorf("index.Lookup: unknown index %q", name)
}
