package ratehelpers

import (
	"time"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/quote"
)

// FuturesType decides which start dates a futures contract accepts.
type FuturesType int

const (
	// FuturesIMM contracts start on the third Wednesday of a month.
	FuturesIMM FuturesType = iota
	// FuturesASX contracts start on the second Friday of a month.
	FuturesASX
	// FuturesCustom contracts start on any date.
	FuturesCustom
)

// FuturesConfig describes a short-term interest rate future. The end of the
// underlying period comes from exactly one of Index, LengthInMonths
// (with Calendar, Convention and EndOfMonth) or End. Supplying more than one
// is allowed only when they agree.
type FuturesConfig struct {
	Price quote.Quote
	Start time.Time
	Type  FuturesType

	Index *index.IborIndex

	LengthInMonths int
	Calendar       calendar.CalendarID
	Convention     calendar.BusinessDayConvention
	EndOfMonth     bool

	End      time.Time
	DayCount market.DayCount

	// ConvexityAdjustment is a rate added to the forward before pricing;
	// nil means zero.
	ConvexityAdjustment quote.Quote
}

// FuturesHelper calibrates to a futures price of 100 × (1 − rate).
type FuturesHelper struct {
	base

	start        time.Time
	end          time.Time
	dayCount     market.DayCount
	yearFraction float64
	futuresType  FuturesType
	convexity    quote.Quote
}

// NewFuturesHelper validates cfg and fixes the contract's dates.
func NewFuturesHelper(cfg FuturesConfig) (*FuturesHelper, error) {
	const kind = KindFutures
	if cfg.Price == nil {
		return nil, inconsistent(kind, "price", "quote required")
	}
	if cfg.Start.IsZero() {
		return nil, inconsistent(kind, "start", "start date required")
	}
	switch cfg.Type {
	case FuturesIMM:
		if !calendar.IsIMMDate(cfg.Start, false) {
			return nil, inconsistent(kind, "start", "%s is not an IMM date", formatDate(cfg.Start))
		}
	case FuturesASX:
		if !calendar.IsASXDate(cfg.Start, false) {
			return nil, inconsistent(kind, "start", "%s is not an ASX date", formatDate(cfg.Start))
		}
	case FuturesCustom:
	default:
		return nil, inconsistent(kind, "type", "unknown futures type %d", cfg.Type)
	}
	if cfg.LengthInMonths < 0 {
		return nil, inconsistent(kind, "length", "negative length %d months", cfg.LengthInMonths)
	}

	end, dc := cfg.End, cfg.DayCount
	switch {
	case cfg.Index != nil:
		end = cfg.Index.MaturityDate(cfg.Start)
		if dc != "" && dc != cfg.Index.DayCount {
			return nil, inconsistent(kind, "day count", "%s conflicts with index %s day count %s", dc, cfg.Index.Name, cfg.Index.DayCount)
		}
		dc = cfg.Index.DayCount
		if cfg.LengthInMonths != 0 {
			if m, ok := cfg.Index.Tenor.Months(); !ok || m != cfg.LengthInMonths {
				return nil, inconsistent(kind, "length", "%d months conflicts with index tenor %s", cfg.LengthInMonths, cfg.Index.Tenor)
			}
		}
	case cfg.LengthInMonths > 0:
		end = calendar.Advance(cfg.Calendar, cfg.Start, calendar.PeriodOf(cfg.LengthInMonths, calendar.Months), cfg.Convention, cfg.EndOfMonth)
	case cfg.End.IsZero():
		return nil, inconsistent(kind, "end", "one of index, length or end date required")
	}
	if !cfg.End.IsZero() && !cfg.End.Equal(end) {
		return nil, inconsistent(kind, "end", "%s conflicts with derived end %s", formatDate(cfg.End), formatDate(end))
	}
	if dc == "" {
		return nil, inconsistent(kind, "day count", "day count required")
	}
	if !end.After(cfg.Start) {
		return nil, &DateOrderError{Kind: kind, Start: cfg.Start, End: end}
	}
	if quote.Valid(cfg.ConvexityAdjustment) {
		if v, _ := cfg.ConvexityAdjustment.Value(); v < 0 {
			return nil, inconsistent(kind, "convexity adjustment", "negative value %v", v)
		}
	}

	h := &FuturesHelper{
		base:         newBase(kind, cfg.Price),
		start:        cfg.Start,
		end:          end,
		dayCount:     dc,
		yearFraction: dc.YearFraction(cfg.Start, end),
		futuresType:  cfg.Type,
		convexity:    cfg.ConvexityAdjustment,
	}
	h.base.implied = h.ImpliedQuote
	h.setDates(cfg.Start, end, end, end)
	return h, nil
}

// ImpliedQuote is 100 × (1 − (forward + convexity adjustment)).
func (h *FuturesHelper) ImpliedQuote() (float64, error) {
	ts, err := h.curve()
	if err != nil {
		return 0, err
	}
	adj, err := h.ConvexityAdjustment()
	if err != nil {
		return 0, err
	}
	forward := (ts.Discount(h.start)/ts.Discount(h.end) - 1) / h.yearFraction
	return 100 * (1 - (forward + adj)), nil
}

// ConvexityAdjustment reads the adjustment quote; absent means zero.
func (h *FuturesHelper) ConvexityAdjustment() (float64, error) {
	adj, err := optionalValue(h.convexity)
	if err != nil {
		return 0, &InconsistentInstrumentError{Kind: h.kind, Field: "convexity adjustment", Reason: err.Error()}
	}
	if adj < 0 {
		return 0, inconsistent(h.kind, "convexity adjustment", "negative value %v", adj)
	}
	return adj, nil
}

func (h *FuturesHelper) SetTermStructure(c curve.Curve) error {
	h.link(c)
	return nil
}

// Update is a no-op: futures dates are absolute.
func (h *FuturesHelper) Update() error { return nil }

func (h *FuturesHelper) YearFraction() float64     { return h.yearFraction }
func (h *FuturesHelper) DayCount() market.DayCount { return h.dayCount }
func (h *FuturesHelper) Type() FuturesType         { return h.futuresType }

func (h *FuturesHelper) Accept(v Visitor) { v.VisitFutures(h) }
