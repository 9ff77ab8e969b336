package swaps

import (
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/schedule"
)

// BMASwapParams describes a unit-notional swap of averaged BMA against a
// fraction of ibor. Discounting uses the ibor index's forwarding curve.
type BMASwapParams struct {
	Today time.Time
	Start time.Time
	End   time.Time

	BMALeg  market.LegConvention
	IborLeg market.LegConvention
	BMA     *index.BMAIndex
	Ibor    *index.IborIndex
}

// BMASwap prices off the live forwarding handles of its two indexes.
type BMASwap struct {
	BMA  []BMACoupon
	Ibor []FloatingCoupon

	today time.Time
	bma   *index.BMAIndex
	ibor  *index.IborIndex
}

// NewBMASwap builds both legs with backward schedules from End.
func NewBMASwap(p BMASwapParams) (*BMASwap, error) {
	if p.BMA == nil || p.Ibor == nil {
		return nil, fmt.Errorf("NewBMASwap: %w", ErrNilIndex)
	}
	bmaDates, err := schedule.Generate(legSchedule(p.Start, p.End, p.BMALeg))
	if err != nil {
		return nil, fmt.Errorf("NewBMASwap: bma leg: %w", err)
	}
	iborDates, err := schedule.Generate(legSchedule(p.Start, p.End, p.IborLeg))
	if err != nil {
		return nil, fmt.Errorf("NewBMASwap: ibor leg: %w", err)
	}
	return &BMASwap{
		BMA:   BMALeg(bmaDates, p.BMA, p.BMALeg),
		Ibor:  IborLeg(iborDates, p.Ibor, p.IborLeg),
		today: p.Today,
		bma:   p.BMA,
		ibor:  p.Ibor,
	}, nil
}

// MaturityDate is the latest payment over both legs.
func (s *BMASwap) MaturityDate() time.Time {
	end := s.BMA[len(s.BMA)-1].PayDate
	if f := s.Ibor[len(s.Ibor)-1].PayDate; f.After(end) {
		end = f
	}
	return end
}

// BMALegNPV is the PV of the averaged BMA coupons.
func (s *BMASwap) BMALegNPV() (float64, error) {
	disc, err := discountCurve(s.ibor.ForwardingCurve())
	if err != nil {
		return 0, fmt.Errorf("BMALegNPV: %w", err)
	}
	ref := disc.ReferenceDate()
	npv := 0.0
	for _, c := range s.BMA {
		if c.PayDate.Before(ref) {
			continue
		}
		rate, err := c.Rate(s.bma, s.today)
		if err != nil {
			return 0, fmt.Errorf("BMALegNPV: %w", err)
		}
		npv += rate * c.Accrual * disc.Discount(c.PayDate)
	}
	return npv, nil
}

// IborLegNPV is the PV of the full ibor coupons, before any fraction.
func (s *BMASwap) IborLegNPV() (float64, error) {
	disc, err := discountCurve(s.ibor.ForwardingCurve())
	if err != nil {
		return 0, fmt.Errorf("IborLegNPV: %w", err)
	}
	ref := disc.ReferenceDate()
	npv := 0.0
	for _, c := range s.Ibor {
		if c.PayDate.Before(ref) {
			continue
		}
		rate, err := c.Rate(s.ibor, s.today)
		if err != nil {
			return 0, fmt.Errorf("IborLegNPV: %w", err)
		}
		npv += rate * c.Accrual * disc.Discount(c.PayDate)
	}
	return npv, nil
}

// FairLiborFraction is the ibor gearing at which both legs have equal PV.
func (s *BMASwap) FairLiborFraction() (float64, error) {
	bma, err := s.BMALegNPV()
	if err != nil {
		return 0, err
	}
	ibor, err := s.IborLegNPV()
	if err != nil {
		return 0, err
	}
	if ibor == 0 {
		return 0, fmt.Errorf("FairLiborFraction: zero ibor leg value")
	}
	return bma / ibor, nil
}
