package ratehelpers

import (
	"time"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/settings"
)

// DepositConfig describes a spot-starting deposit, either by explicit fields
// or by a bound ibor index. Explicit fields given alongside Index must agree
// with it.
type DepositConfig struct {
	Rate quote.Quote

	Index *index.IborIndex

	Tenor      calendar.Period
	FixingDays int
	Calendar   calendar.CalendarID
	Convention calendar.BusinessDayConvention
	EndOfMonth bool
	DayCount   market.DayCount

	Pillar           PillarChoice
	CustomPillarDate time.Time

	// Settings supplies the evaluation date; nil uses settings.Default().
	Settings *settings.Settings
}

// DepositHelper calibrates to a simple deposit rate.
type DepositHelper struct {
	base
	relative

	index        *index.IborIndex
	pillarChoice PillarChoice
	customPillar time.Time
	fixingDate   time.Time
}

// NewDepositHelper validates cfg and derives dates from the evaluation date.
func NewDepositHelper(cfg DepositConfig) (*DepositHelper, error) {
	const kind = KindDeposit
	if cfg.Rate == nil {
		return nil, inconsistent(kind, "rate", "quote required")
	}
	idx, err := resolveIbor(kind, cfg.Index, iborFields{
		tenor:      cfg.Tenor,
		fixingDays: cfg.FixingDays,
		calendar:   cfg.Calendar,
		convention: cfg.Convention,
		endOfMonth: cfg.EndOfMonth,
		dayCount:   cfg.DayCount,
	})
	if err != nil {
		return nil, err
	}

	h := &DepositHelper{
		base:         newBase(kind, cfg.Rate),
		relative:     newRelative(cfg.Settings),
		pillarChoice: cfg.Pillar,
		customPillar: cfg.CustomPillarDate,
	}
	h.index = idx.WithForwardingCurve(h.termStructure)
	h.base.implied = h.ImpliedQuote
	if err := h.initializeDates(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *DepositHelper) initializeDates() error {
	ref := calendar.AdjustFollowing(h.index.Calendar, h.evaluationDate)
	earliest := h.index.ValueDate(ref)
	maturity := h.index.MaturityDate(earliest)
	if !maturity.After(earliest) {
		return &DateOrderError{Kind: h.kind, Start: earliest, End: maturity}
	}
	pillar, err := ResolvePillar(h.kind, h.pillarChoice, h.customPillar, PillarDates{
		Earliest: earliest, Maturity: maturity, LatestRelevant: maturity,
	})
	if err != nil {
		return err
	}
	h.fixingDate = h.index.FixingDate(earliest)
	h.setDates(earliest, maturity, maturity, pillar)
	return nil
}

// ImpliedQuote is the simple forward rate over the deposit period.
func (h *DepositHelper) ImpliedQuote() (float64, error) {
	if _, err := h.curve(); err != nil {
		return 0, err
	}
	return h.index.Forecast(h.earliest)
}

// SetTermStructure links c and rederives dates if the evaluation date moved.
func (h *DepositHelper) SetTermStructure(c curve.Curve) error {
	h.link(c)
	return h.refresh(h.initializeDates)
}

// Update rederives dates if the evaluation date moved.
func (h *DepositHelper) Update() error {
	return h.refresh(h.initializeDates)
}

func (h *DepositHelper) FixingDate() time.Time   { return h.fixingDate }
func (h *DepositHelper) Index() *index.IborIndex { return h.index }

func (h *DepositHelper) Accept(v Visitor) { v.VisitDeposit(h) }
