package ratehelpers

import (
	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/settings"
)

// FxSwapConfig describes an FX swap quoted in forward points. The curve being
// bootstrapped belongs to one currency and CollateralCurve to the other;
// IsFxBaseCurrencyCollateralCurrency says which one is the base currency.
type FxSwapConfig struct {
	ForwardPoints quote.Quote
	Spot          quote.Quote

	Tenor      calendar.Period
	FixingDays int
	Calendar   calendar.CalendarID
	Convention calendar.BusinessDayConvention
	EndOfMonth bool

	IsFxBaseCurrencyCollateralCurrency bool
	CollateralCurve                    *curve.Handle

	Settings *settings.Settings
}

// FxSwapHelper calibrates one currency's curve to FX forward points under
// covered interest parity.
type FxSwapHelper struct {
	base
	relative

	spot       quote.Quote
	tenor      calendar.Period
	fixingDays int
	calendar   calendar.CalendarID
	convention calendar.BusinessDayConvention
	endOfMonth bool
	baseIsColl bool
	collateral *curve.Handle
}

// NewFxSwapHelper validates cfg and derives the near and far dates.
func NewFxSwapHelper(cfg FxSwapConfig) (*FxSwapHelper, error) {
	const kind = KindFxSwap
	switch {
	case cfg.ForwardPoints == nil:
		return nil, inconsistent(kind, "forward points", "quote required")
	case cfg.Spot == nil:
		return nil, inconsistent(kind, "spot", "quote required")
	case cfg.Tenor.Length <= 0:
		return nil, inconsistent(kind, "tenor", "positive tenor required, got %s", cfg.Tenor)
	case cfg.FixingDays < 0:
		return nil, inconsistent(kind, "fixing days", "negative fixing days %d", cfg.FixingDays)
	case cfg.CollateralCurve == nil:
		return nil, inconsistent(kind, "collateral curve", "handle required")
	}
	h := &FxSwapHelper{
		base:       newBase(kind, cfg.ForwardPoints),
		relative:   newRelative(cfg.Settings),
		spot:       cfg.Spot,
		tenor:      cfg.Tenor,
		fixingDays: cfg.FixingDays,
		calendar:   cfg.Calendar,
		convention: cfg.Convention,
		endOfMonth: cfg.EndOfMonth,
		baseIsColl: cfg.IsFxBaseCurrencyCollateralCurrency,
		collateral: cfg.CollateralCurve,
	}
	h.base.implied = h.ImpliedQuote
	if err := h.initializeDates(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *FxSwapHelper) initializeDates() error {
	ref := calendar.AdjustFollowing(h.calendar, h.evaluationDate)
	earliest := calendar.Advance(h.calendar, ref, calendar.PeriodOf(h.fixingDays, calendar.Days), calendar.Following, false)
	latest := calendar.Advance(h.calendar, earliest, h.tenor, h.convention, h.endOfMonth)
	if !latest.After(earliest) {
		return &DateOrderError{Kind: h.kind, Start: earliest, End: latest}
	}
	h.setDates(earliest, latest, latest, latest)
	return nil
}

// ImpliedQuote is the forward points implied by the two curves' growth
// ratios between the near and far dates.
func (h *FxSwapHelper) ImpliedQuote() (float64, error) {
	ts, err := h.curve()
	if err != nil {
		return 0, err
	}
	coll, err := h.curveFrom(h.collateral, "collateral curve")
	if err != nil {
		return 0, err
	}
	spot, err := quote.Value(h.spot)
	if err != nil {
		return 0, &InconsistentInstrumentError{Kind: h.kind, Field: "spot", Reason: err.Error()}
	}
	ratio := ts.Discount(h.earliest) / ts.Discount(h.latest)
	collRatio := coll.Discount(h.earliest) / coll.Discount(h.latest)
	if h.baseIsColl {
		return (ratio/collRatio - 1) * spot, nil
	}
	return (collRatio/ratio - 1) * spot, nil
}

func (h *FxSwapHelper) SetTermStructure(c curve.Curve) error {
	h.link(c)
	return h.refresh(h.initializeDates)
}

func (h *FxSwapHelper) Update() error {
	return h.refresh(h.initializeDates)
}

func (h *FxSwapHelper) Spot() quote.Quote                                     { return h.spot }
func (h *FxSwapHelper) Tenor() calendar.Period                                { return h.tenor }
func (h *FxSwapHelper) FixingDays() int                                       { return h.fixingDays }
func (h *FxSwapHelper) Calendar() calendar.CalendarID                         { return h.calendar }
func (h *FxSwapHelper) BusinessDayConvention() calendar.BusinessDayConvention { return h.convention }
func (h *FxSwapHelper) EndOfMonth() bool                                      { return h.endOfMonth }
func (h *FxSwapHelper) IsFxBaseCurrencyCollateralCurrency() bool              { return h.baseIsColl }
func (h *FxSwapHelper) CollateralCurve() *curve.Handle                        { return h.collateral }

func (h *FxSwapHelper) Accept(v Visitor) { v.VisitFxSwap(h) }
