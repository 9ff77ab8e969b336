package ratehelpers

import (
	"time"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/instruments/swaps"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/settings"
)

// BMASwapConfig describes a BMA-vs-ibor basis swap quoted as the fraction of
// ibor that the BMA leg is worth. The curve being bootstrapped forecasts BMA;
// the ibor index must carry its own forwarding curve, which also discounts.
type BMASwapConfig struct {
	LiborFraction quote.Quote

	Tenor          calendar.Period
	SettlementDays int
	Calendar       calendar.CalendarID

	BMAPeriod     calendar.Period
	BMAConvention calendar.BusinessDayConvention
	BMADayCount   market.DayCount
	BMAIndex      *index.BMAIndex

	IborIndex *index.IborIndex

	Settings *settings.Settings
}

// BMASwapHelper calibrates a BMA curve against a known ibor curve.
type BMASwapHelper struct {
	base
	relative

	tenor          calendar.Period
	settlementDays int
	calendar       calendar.CalendarID
	bmaPeriod      calendar.Period
	bmaConvention  calendar.BusinessDayConvention
	bmaDayCount    market.DayCount
	bma            *index.BMAIndex
	ibor           *index.IborIndex

	swap *swaps.BMASwap
}

// NewBMASwapHelper validates cfg and builds the calibration swap.
func NewBMASwapHelper(cfg BMASwapConfig) (*BMASwapHelper, error) {
	const kind = KindBMASwap
	switch {
	case cfg.LiborFraction == nil:
		return nil, inconsistent(kind, "libor fraction", "quote required")
	case cfg.Tenor.Length <= 0:
		return nil, inconsistent(kind, "tenor", "positive tenor required, got %s", cfg.Tenor)
	case cfg.SettlementDays < 0:
		return nil, inconsistent(kind, "settlement days", "negative settlement days %d", cfg.SettlementDays)
	case cfg.BMAPeriod.Length <= 0:
		return nil, inconsistent(kind, "bma period", "positive period required, got %s", cfg.BMAPeriod)
	case cfg.BMADayCount == "":
		return nil, inconsistent(kind, "bma day count", "day count required")
	case cfg.BMAIndex == nil:
		return nil, inconsistent(kind, "bma index", "index required")
	case cfg.IborIndex == nil:
		return nil, inconsistent(kind, "ibor index", "index required")
	}

	h := &BMASwapHelper{
		base:           newBase(kind, cfg.LiborFraction),
		relative:       newRelative(cfg.Settings),
		tenor:          cfg.Tenor,
		settlementDays: cfg.SettlementDays,
		calendar:       cfg.Calendar,
		bmaPeriod:      cfg.BMAPeriod,
		bmaConvention:  cfg.BMAConvention,
		bmaDayCount:    cfg.BMADayCount,
		ibor:           cfg.IborIndex,
	}
	h.bma = cfg.BMAIndex.WithForwardingCurve(h.termStructure)
	h.base.implied = h.ImpliedQuote
	if err := h.initializeDates(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *BMASwapHelper) initializeDates() error {
	s, earliest, err := h.buildSwap()
	if err != nil {
		return err
	}
	maturity := s.MaturityDate()
	if !maturity.After(earliest) {
		return &DateOrderError{Kind: h.kind, Start: earliest, End: maturity}
	}
	// The last weekly fixing reaches past maturity to the following
	// Wednesday's value date.
	d := calendar.AdjustFollowing(h.calendar, maturity)
	nextWednesday := calendar.NextWednesday(d.AddDate(0, 0, 1))
	latest := h.bma.ValueDate(calendar.AdjustFollowing(h.bma.Calendar, nextWednesday))

	h.swap = s
	h.setDates(earliest, maturity, latest, latest)
	return nil
}

func (h *BMASwapHelper) buildSwap() (*swaps.BMASwap, time.Time, error) {
	ref := calendar.AdjustFollowing(h.calendar, h.evaluationDate)
	earliest := calendar.Advance(h.calendar, ref, calendar.PeriodOf(h.settlementDays, calendar.Days), calendar.Following, false)
	end := calendar.AddPeriod(earliest, h.tenor)
	s, err := swaps.NewBMASwap(swaps.BMASwapParams{
		Today: h.evaluationDate,
		Start: earliest,
		End:   end,
		BMALeg: market.LegConvention{
			DayCount:              h.bmaDayCount,
			Tenor:                 h.bmaPeriod,
			Calendar:              h.bma.Calendar,
			Convention:            h.bmaConvention,
			TerminationConvention: h.bmaConvention,
		},
		IborLeg: market.LegConvention{
			LegType:               market.LegFloating,
			DayCount:              h.ibor.DayCount,
			Tenor:                 h.ibor.Tenor,
			Calendar:              h.ibor.Calendar,
			Convention:            h.ibor.Convention,
			TerminationConvention: h.ibor.Convention,
			EndOfMonth:            h.ibor.EndOfMonth,
		},
		BMA:  h.bma,
		Ibor: h.ibor,
	})
	if err != nil {
		return nil, time.Time{}, inconsistent(h.kind, "swap", "%v", err)
	}
	return s, earliest, nil
}

// Swap returns the calibration swap, rebuilding it after Update.
func (h *BMASwapHelper) Swap() (*swaps.BMASwap, error) {
	if h.swap == nil {
		s, _, err := h.buildSwap()
		if err != nil {
			return nil, err
		}
		h.swap = s
	}
	return h.swap, nil
}

// ImpliedQuote is the fair ibor fraction.
func (h *BMASwapHelper) ImpliedQuote() (float64, error) {
	if _, err := h.curve(); err != nil {
		return 0, err
	}
	if _, err := h.curveFrom(h.ibor.ForwardingCurve(), "ibor forwarding curve"); err != nil {
		return 0, err
	}
	s, err := h.Swap()
	if err != nil {
		return 0, err
	}
	return s.FairLiborFraction()
}

func (h *BMASwapHelper) SetTermStructure(c curve.Curve) error {
	h.link(c)
	return h.Update()
}

func (h *BMASwapHelper) Update() error {
	h.swap = nil
	return h.refresh(h.initializeDates)
}

func (h *BMASwapHelper) BMAIndex() *index.BMAIndex   { return h.bma }
func (h *BMASwapHelper) IborIndex() *index.IborIndex { return h.ibor }

func (h *BMASwapHelper) Accept(v Visitor) { v.VisitBMASwap(h) }
