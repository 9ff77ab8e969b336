package swaps

import (
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/schedule"
)

// VanillaSwapParams describes a unit-notional fixed-vs-ibor swap.
type VanillaSwapParams struct {
	// Today decides whether a fixing is read from history or forecast.
	Today time.Time
	// Start and End are unadjusted; each leg applies its own conventions.
	Start time.Time
	End   time.Time

	FixedLeg    market.LegConvention
	FloatingLeg market.LegConvention
	Index       *index.IborIndex
	Discount    *curve.Handle
}

// VanillaSwap values its legs off live curve handles, so relinking a handle
// reprices without rebuilding.
type VanillaSwap struct {
	Fixed    []FixedCoupon
	Floating []FloatingCoupon

	today    time.Time
	index    *index.IborIndex
	discount *curve.Handle
}

// NewVanillaSwap builds both legs with backward schedules from End.
func NewVanillaSwap(p VanillaSwapParams) (*VanillaSwap, error) {
	if p.Index == nil {
		return nil, fmt.Errorf("NewVanillaSwap: %w", ErrNilIndex)
	}
	if p.Discount == nil {
		return nil, fmt.Errorf("NewVanillaSwap: %w", ErrNilCurve)
	}
	fixedDates, err := schedule.Generate(legSchedule(p.Start, p.End, p.FixedLeg))
	if err != nil {
		return nil, fmt.Errorf("NewVanillaSwap: fixed leg: %w", err)
	}
	floatDates, err := schedule.Generate(legSchedule(p.Start, p.End, p.FloatingLeg))
	if err != nil {
		return nil, fmt.Errorf("NewVanillaSwap: floating leg: %w", err)
	}
	return &VanillaSwap{
		Fixed:    FixedLeg(fixedDates, p.FixedLeg),
		Floating: IborLeg(floatDates, p.Index, p.FloatingLeg),
		today:    p.Today,
		index:    p.Index,
		discount: p.Discount,
	}, nil
}

func legSchedule(start, end time.Time, leg market.LegConvention) schedule.Params {
	return schedule.Params{
		Effective:             start,
		Termination:           end,
		Tenor:                 leg.Tenor,
		Calendar:              leg.Calendar,
		Convention:            leg.Convention,
		TerminationConvention: leg.TerminationConvention,
		Rule:                  schedule.Backward,
		EndOfMonth:            leg.EndOfMonth,
	}
}

// StartDate is the earliest accrual start over both legs.
func (s *VanillaSwap) StartDate() time.Time {
	start := s.Fixed[0].StartDate
	if f := s.Floating[0].StartDate; f.Before(start) {
		start = f
	}
	return start
}

// MaturityDate is the latest payment over both legs.
func (s *VanillaSwap) MaturityDate() time.Time {
	end := s.Fixed[len(s.Fixed)-1].PayDate
	if f := s.Floating[len(s.Floating)-1].PayDate; f.After(end) {
		end = f
	}
	return end
}

// LastFloatingCoupon is the final ibor period.
func (s *VanillaSwap) LastFloatingCoupon() FloatingCoupon {
	return s.Floating[len(s.Floating)-1]
}

// FixedLegBPS is the discounted accrual of the fixed leg: its PV per unit of
// fixed rate. Flows paid before the curve reference date are excluded.
func (s *VanillaSwap) FixedLegBPS() (float64, error) {
	disc, err := discountCurve(s.discount)
	if err != nil {
		return 0, fmt.Errorf("FixedLegBPS: %w", err)
	}
	ref := disc.ReferenceDate()
	bps := 0.0
	for _, c := range s.Fixed {
		if c.PayDate.Before(ref) {
			continue
		}
		bps += c.Accrual * disc.Discount(c.PayDate)
	}
	return bps, nil
}

// FloatingLegNPV is the PV of the ibor coupons.
func (s *VanillaSwap) FloatingLegNPV() (float64, error) {
	disc, err := discountCurve(s.discount)
	if err != nil {
		return 0, fmt.Errorf("FloatingLegNPV: %w", err)
	}
	ref := disc.ReferenceDate()
	npv := 0.0
	for _, c := range s.Floating {
		if c.PayDate.Before(ref) {
			continue
		}
		rate, err := c.Rate(s.index, s.today)
		if err != nil {
			return 0, fmt.Errorf("FloatingLegNPV: %w", err)
		}
		npv += rate * c.Accrual * disc.Discount(c.PayDate)
	}
	return npv, nil
}

// FairRate is the fixed rate that sets the swap's NPV to zero.
func (s *VanillaSwap) FairRate() (float64, error) {
	floating, err := s.FloatingLegNPV()
	if err != nil {
		return 0, err
	}
	bps, err := s.FixedLegBPS()
	if err != nil {
		return 0, err
	}
	if bps == 0 {
		return 0, fmt.Errorf("FairRate: zero fixed leg annuity")
	}
	return floating / bps, nil
}

// NPV values a receiver of fixedRate against flat ibor.
func (s *VanillaSwap) NPV(fixedRate float64) (float64, error) {
	floating, err := s.FloatingLegNPV()
	if err != nil {
		return 0, err
	}
	bps, err := s.FixedLegBPS()
	if err != nil {
		return 0, err
	}
	return fixedRate*bps - floating, nil
}
