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

// FRAConfig describes a forward rate agreement. The forward period is given
// either as MonthsToStart/MonthsToEnd (the 1x4 style) or as PeriodToStart
// plus LengthInMonths; with Index the length defaults to the index tenor.
type FRAConfig struct {
	Rate quote.Quote

	MonthsToStart int
	MonthsToEnd   int

	PeriodToStart  calendar.Period
	LengthInMonths int

	Index *index.IborIndex

	FixingDays int
	Calendar   calendar.CalendarID
	Convention calendar.BusinessDayConvention
	EndOfMonth bool
	DayCount   market.DayCount

	Pillar           PillarChoice
	CustomPillarDate time.Time

	Settings *settings.Settings
}

// FRAHelper calibrates to a forward rate agreement.
type FRAHelper struct {
	base
	relative

	index         *index.IborIndex
	periodToStart calendar.Period
	pillarChoice  PillarChoice
	customPillar  time.Time
	fixingDate    time.Time
}

// NewFRAHelper reconciles the period styles in cfg and derives dates.
func NewFRAHelper(cfg FRAConfig) (*FRAHelper, error) {
	const kind = KindFRA
	if cfg.Rate == nil {
		return nil, inconsistent(kind, "rate", "quote required")
	}
	periodToStart, length, err := fraPeriods(cfg)
	if err != nil {
		return nil, err
	}
	var tenor calendar.Period
	if length > 0 {
		tenor = calendar.PeriodOf(length, calendar.Months)
	}
	idx, err := resolveIbor(kind, cfg.Index, iborFields{
		tenor:      tenor,
		fixingDays: cfg.FixingDays,
		calendar:   cfg.Calendar,
		convention: cfg.Convention,
		endOfMonth: cfg.EndOfMonth,
		dayCount:   cfg.DayCount,
	})
	if err != nil {
		return nil, err
	}

	h := &FRAHelper{
		base:          newBase(kind, cfg.Rate),
		relative:      newRelative(cfg.Settings),
		periodToStart: periodToStart,
		pillarChoice:  cfg.Pillar,
		customPillar:  cfg.CustomPillarDate,
	}
	h.index = idx.WithForwardingCurve(h.termStructure)
	h.base.implied = h.ImpliedQuote
	if err := h.initializeDates(); err != nil {
		return nil, err
	}
	return h, nil
}

// fraPeriods returns the period to start and the length in months, zero
// length meaning "take it from the index".
func fraPeriods(cfg FRAConfig) (calendar.Period, int, error) {
	const kind = KindFRA
	periodToStart := cfg.PeriodToStart
	length := cfg.LengthInMonths
	if length < 0 {
		return calendar.Period{}, 0, inconsistent(kind, "length", "negative length %d months", length)
	}
	if cfg.MonthsToStart < 0 || cfg.MonthsToEnd < 0 {
		return calendar.Period{}, 0, inconsistent(kind, "months", "negative months %dx%d", cfg.MonthsToStart, cfg.MonthsToEnd)
	}

	if cfg.MonthsToStart != 0 || cfg.MonthsToEnd != 0 {
		byMonths := calendar.PeriodOf(cfg.MonthsToStart, calendar.Months)
		if !periodToStart.IsZero() && !periodToStart.Equal(byMonths) {
			return calendar.Period{}, 0, inconsistent(kind, "period to start", "%s conflicts with %d months to start", periodToStart, cfg.MonthsToStart)
		}
		periodToStart = byMonths
	}
	if cfg.MonthsToEnd != 0 {
		if cfg.MonthsToEnd <= cfg.MonthsToStart {
			return calendar.Period{}, 0, inconsistent(kind, "months to end", "%d not after months to start %d", cfg.MonthsToEnd, cfg.MonthsToStart)
		}
		byMonths := cfg.MonthsToEnd - cfg.MonthsToStart
		if length != 0 && length != byMonths {
			return calendar.Period{}, 0, inconsistent(kind, "length", "%d months conflicts with %dx%d", length, cfg.MonthsToStart, cfg.MonthsToEnd)
		}
		length = byMonths
	}
	if periodToStart.Length < 0 {
		return calendar.Period{}, 0, inconsistent(kind, "period to start", "negative period %s", periodToStart)
	}
	return periodToStart, length, nil
}

func (h *FRAHelper) initializeDates() error {
	cal := h.index.Calendar
	ref := calendar.AdjustFollowing(cal, h.evaluationDate)
	spot := calendar.Advance(cal, ref, calendar.PeriodOf(h.index.FixingDays, calendar.Days), calendar.Following, false)
	earliest := calendar.Advance(cal, spot, h.periodToStart, h.index.Convention, h.index.EndOfMonth)
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

// ImpliedQuote is the simple forward rate over the FRA period.
func (h *FRAHelper) ImpliedQuote() (float64, error) {
	if _, err := h.curve(); err != nil {
		return 0, err
	}
	return h.index.Forecast(h.earliest)
}

func (h *FRAHelper) SetTermStructure(c curve.Curve) error {
	h.link(c)
	return h.refresh(h.initializeDates)
}

func (h *FRAHelper) Update() error {
	return h.refresh(h.initializeDates)
}

func (h *FRAHelper) FixingDate() time.Time          { return h.fixingDate }
func (h *FRAHelper) PeriodToStart() calendar.Period { return h.periodToStart }
func (h *FRAHelper) Index() *index.IborIndex        { return h.index }

func (h *FRAHelper) Accept(v Visitor) { v.VisitFRA(h) }
