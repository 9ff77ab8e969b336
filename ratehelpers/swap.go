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
	"github.com/meenmo/fwdcurve/utils"
)

// SwapConfig describes a fixed-vs-ibor par swap, either by explicit leg
// fields or by a SwapIndex. Explicit fields given alongside SwapIndex must
// agree with it.
type SwapConfig struct {
	Rate quote.Quote

	SwapIndex *index.SwapIndex

	Tenor           calendar.Period
	Calendar        calendar.CalendarID
	FixedFrequency  market.Frequency
	FixedConvention calendar.BusinessDayConvention
	FixedDayCount   market.DayCount
	EndOfMonth      bool
	IborIndex       *index.IborIndex

	// Spread is paid over the ibor leg; nil means zero.
	Spread       quote.Quote
	ForwardStart calendar.Period
	// DiscountingCurve discounts both legs when set; otherwise the curve
	// being bootstrapped does.
	DiscountingCurve *curve.Handle
	// SettlementDays defaults to the ibor index fixing days and Calendar to
	// the ibor index calendar.
	SettlementDays *int

	Pillar           PillarChoice
	CustomPillarDate time.Time

	Settings *settings.Settings
}

// SwapHelper calibrates to a par swap rate.
type SwapHelper struct {
	base
	relative

	tenor           calendar.Period
	calendar        calendar.CalendarID
	fixedFrequency  market.Frequency
	fixedConvention calendar.BusinessDayConvention
	fixedDayCount   market.DayCount
	endOfMonth      bool
	settlementDays  int
	forwardStart    calendar.Period
	spread          quote.Quote
	discount        *curve.Handle
	index           *index.IborIndex
	pillarChoice    PillarChoice
	customPillar    time.Time

	swap *swaps.VanillaSwap
}

// NewSwapHelper validates cfg and builds the calibration swap.
func NewSwapHelper(cfg SwapConfig) (*SwapHelper, error) {
	const kind = KindSwap
	if cfg.Rate == nil {
		return nil, inconsistent(kind, "rate", "quote required")
	}
	if cfg.SwapIndex != nil {
		if err := mergeSwapIndex(&cfg); err != nil {
			return nil, err
		}
	}
	switch {
	case cfg.Tenor.Length <= 0:
		return nil, inconsistent(kind, "tenor", "positive tenor required, got %s", cfg.Tenor)
	case cfg.FixedFrequency <= 0:
		return nil, inconsistent(kind, "fixed frequency", "periodic fixed leg required, got %d", cfg.FixedFrequency)
	case cfg.FixedDayCount == "":
		return nil, inconsistent(kind, "fixed day count", "day count required")
	case cfg.IborIndex == nil:
		return nil, inconsistent(kind, "ibor index", "index required")
	}
	if cfg.Calendar == "" {
		cfg.Calendar = cfg.IborIndex.Calendar
	}
	settlementDays := cfg.IborIndex.FixingDays
	if cfg.SettlementDays != nil {
		settlementDays = *cfg.SettlementDays
	}
	if settlementDays < 0 {
		return nil, inconsistent(kind, "settlement days", "negative settlement days %d", settlementDays)
	}

	h := &SwapHelper{
		base:            newBase(kind, cfg.Rate),
		relative:        newRelative(cfg.Settings),
		tenor:           cfg.Tenor,
		calendar:        cfg.Calendar,
		fixedFrequency:  cfg.FixedFrequency,
		fixedConvention: cfg.FixedConvention,
		fixedDayCount:   cfg.FixedDayCount,
		endOfMonth:      cfg.EndOfMonth,
		settlementDays:  settlementDays,
		forwardStart:    cfg.ForwardStart,
		spread:          cfg.Spread,
		discount:        cfg.DiscountingCurve,
		pillarChoice:    cfg.Pillar,
		customPillar:    cfg.CustomPillarDate,
	}
	h.index = cfg.IborIndex.WithForwardingCurve(h.termStructure)
	h.base.implied = h.ImpliedQuote
	if err := h.initializeDates(); err != nil {
		return nil, err
	}
	return h, nil
}

// mergeSwapIndex fills explicit fields from the swap index, rejecting any
// that disagree with it.
func mergeSwapIndex(cfg *SwapConfig) error {
	const kind = KindSwap
	si := cfg.SwapIndex
	if !cfg.Tenor.IsZero() && !cfg.Tenor.Equal(si.Tenor) {
		return inconsistent(kind, "tenor", "%s conflicts with swap index %s", cfg.Tenor, si.Name())
	}
	if cfg.Calendar != "" && cfg.Calendar != si.Calendar {
		return inconsistent(kind, "calendar", "%s conflicts with swap index %s", cfg.Calendar, si.Name())
	}
	if cfg.FixedFrequency != 0 && cfg.FixedFrequency != si.FixedFrequency {
		return inconsistent(kind, "fixed frequency", "%d conflicts with swap index %s", cfg.FixedFrequency, si.Name())
	}
	if cfg.FixedDayCount != "" && cfg.FixedDayCount != si.FixedDayCount {
		return inconsistent(kind, "fixed day count", "%s conflicts with swap index %s", cfg.FixedDayCount, si.Name())
	}
	if cfg.IborIndex != nil && si.Ibor != nil && cfg.IborIndex.Name != si.Ibor.Name {
		return inconsistent(kind, "ibor index", "%s conflicts with swap index %s", cfg.IborIndex.Name, si.Name())
	}
	cfg.Tenor = si.Tenor
	cfg.Calendar = si.Calendar
	cfg.FixedFrequency = si.FixedFrequency
	cfg.FixedConvention = si.FixedConvention
	cfg.FixedDayCount = si.FixedDayCount
	cfg.EndOfMonth = si.EndOfMonth
	if cfg.IborIndex == nil {
		cfg.IborIndex = si.Ibor
	}
	if cfg.SettlementDays == nil {
		days := si.FixingDays
		cfg.SettlementDays = &days
	}
	return nil
}

func (h *SwapHelper) initializeDates() error {
	s, err := h.buildSwap()
	if err != nil {
		return err
	}
	earliest := s.StartDate()
	maturity := s.MaturityDate()
	if !maturity.After(earliest) {
		return &DateOrderError{Kind: h.kind, Start: earliest, End: maturity}
	}
	latestRelevant := utils.MaxDate(maturity, s.LastFloatingCoupon().FixingEndDate)
	pillar, err := ResolvePillar(h.kind, h.pillarChoice, h.customPillar, PillarDates{
		Earliest: earliest, Maturity: maturity, LatestRelevant: latestRelevant,
	})
	if err != nil {
		return err
	}
	h.swap = s
	h.setDates(earliest, maturity, latestRelevant, pillar)
	return nil
}

// buildSwap lays out the swap from the evaluation date: spot is settlement
// days after the adjusted evaluation date, the forward start is added
// unadjusted and then rolled forward, and the tenor runs from there.
func (h *SwapHelper) buildSwap() (*swaps.VanillaSwap, error) {
	cal := h.calendar
	ref := calendar.AdjustFollowing(cal, h.evaluationDate)
	spot := calendar.Advance(cal, ref, calendar.PeriodOf(h.settlementDays, calendar.Days), calendar.Following, false)
	start := spot
	switch {
	case h.forwardStart.Length > 0:
		start = calendar.AdjustWith(cal, calendar.AddPeriod(spot, h.forwardStart), calendar.Following)
	case h.forwardStart.Length < 0:
		start = calendar.AdjustWith(cal, calendar.AddPeriod(spot, h.forwardStart), calendar.Preceding)
	}
	end := calendar.AddPeriod(start, h.tenor)

	discount := h.discount
	if discount == nil {
		discount = h.termStructure
	}
	s, err := swaps.NewVanillaSwap(swaps.VanillaSwapParams{
		Today: h.evaluationDate,
		Start: start,
		End:   end,
		FixedLeg: market.LegConvention{
			LegType:               market.LegFixed,
			DayCount:              h.fixedDayCount,
			Tenor:                 h.fixedFrequency.Period(),
			Calendar:              h.calendar,
			Convention:            h.fixedConvention,
			TerminationConvention: h.fixedConvention,
			EndOfMonth:            h.endOfMonth,
		},
		FloatingLeg: market.LegConvention{
			LegType:               market.LegFloating,
			DayCount:              h.index.DayCount,
			Tenor:                 h.index.Tenor,
			Calendar:              h.calendar,
			Convention:            h.index.Convention,
			TerminationConvention: h.index.Convention,
			EndOfMonth:            h.endOfMonth,
		},
		Index:    h.index,
		Discount: discount,
	})
	if err != nil {
		return nil, inconsistent(h.kind, "swap", "%v", err)
	}
	return s, nil
}

// Swap returns the calibration swap, rebuilding it after Update.
func (h *SwapHelper) Swap() (*swaps.VanillaSwap, error) {
	if h.swap == nil {
		s, err := h.buildSwap()
		if err != nil {
			return nil, err
		}
		h.swap = s
	}
	return h.swap, nil
}

// ImpliedQuote is the fair fixed rate less the spread.
func (h *SwapHelper) ImpliedQuote() (float64, error) {
	if _, err := h.curve(); err != nil {
		return 0, err
	}
	if h.discount != nil {
		if _, err := h.curveFrom(h.discount, "discounting curve"); err != nil {
			return 0, err
		}
	}
	s, err := h.Swap()
	if err != nil {
		return 0, err
	}
	fair, err := s.FairRate()
	if err != nil {
		return 0, err
	}
	spread, err := h.Spread()
	if err != nil {
		return 0, err
	}
	return fair - spread, nil
}

// SetTermStructure links c, drops the memoized swap and rederives dates if
// the evaluation date moved.
func (h *SwapHelper) SetTermStructure(c curve.Curve) error {
	h.link(c)
	return h.Update()
}

// Update drops the memoized swap and rederives dates if the evaluation date
// moved.
func (h *SwapHelper) Update() error {
	h.swap = nil
	return h.refresh(h.initializeDates)
}

// Spread reads the spread quote; absent means zero.
func (h *SwapHelper) Spread() (float64, error) {
	s, err := optionalValue(h.spread)
	if err != nil {
		return 0, &InconsistentInstrumentError{Kind: h.kind, Field: "spread", Reason: err.Error()}
	}
	return s, nil
}

func (h *SwapHelper) ForwardStart() calendar.Period { return h.forwardStart }
func (h *SwapHelper) SettlementDays() int           { return h.settlementDays }
func (h *SwapHelper) Index() *index.IborIndex       { return h.index }

func (h *SwapHelper) Accept(v Visitor) { v.VisitSwap(h) }
