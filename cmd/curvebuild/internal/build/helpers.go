package build

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/marketdata"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/settings"
	"github.com/meenmo/fwdcurve/utils"
)

// QuoteSource resolves instrument ids to stored quotes.
type QuoteSource interface {
	Quote(ctx context.Context, curveDate time.Time, instrument string) (quote.Literal, error)
}

var defaultUnits = map[ratehelpers.Kind]quote.Unit{
	ratehelpers.KindFutures: quote.UnitPrice,
	ratehelpers.KindDeposit: quote.UnitPercent,
	ratehelpers.KindFRA:     quote.UnitPercent,
	ratehelpers.KindSwap:    quote.UnitPercent,
	ratehelpers.KindBMASwap: quote.UnitDecimal,
	ratehelpers.KindFxSwap:  quote.UnitDecimal,
}

// FixingLoader resolves index fixings over a date window.
type FixingLoader interface {
	Fixings(ctx context.Context, indexName string, from, to time.Time) (*marketdata.FixingFeed, error)
}

// fixingLookback bounds how far back stored fixings are loaded.
const fixingLookback = 1

// builder makes helpers for one curve.
type builder struct {
	ctx       context.Context
	curveDate time.Time
	curveName string
	settings  *settings.Settings
	handles   map[string]*curve.Handle
	quotes    QuoteSource
	loader    FixingLoader
	inline    map[string]map[string]float64
	fixings   map[string]index.FixingSource
	log       logrus.FieldLogger
}

// history returns the fixings of the named index. Inline fixings win over
// the loader; both are cached per index.
func (b *builder) history(name string) (index.FixingSource, error) {
	if src, ok := b.fixings[name]; ok {
		return src, nil
	}
	var feed *marketdata.FixingFeed
	source := "inline"
	switch rates, ok := b.inline[name]; {
	case ok:
		feed = marketdata.NewFixingFeed(rates)
	case b.loader != nil:
		var err error
		if feed, err = b.loader.Fixings(b.ctx, name, b.curveDate.AddDate(-fixingLookback, 0, 0), b.curveDate); err != nil {
			return nil, err
		}
		source = "store"
	}
	if feed == nil {
		b.fixings[name] = nil
		return nil, nil
	}
	b.log.WithFields(logrus.Fields{"index": name, "source": source, "fixings": feed.Len()}).Debug("fixings loaded")
	b.fixings[name] = feed
	return feed, nil
}

func (b *builder) helper(in Instrument) (ratehelpers.Helper, error) {
	kind, err := ratehelpers.ParseKind(in.Type)
	if err != nil {
		return nil, err
	}
	q, err := b.marketQuote(in, kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case ratehelpers.KindFutures:
		return b.futures(in, q)
	case ratehelpers.KindDeposit:
		return b.deposit(in, q)
	case ratehelpers.KindFRA:
		return b.fra(in, q)
	case ratehelpers.KindSwap:
		return b.swap(in, q)
	case ratehelpers.KindBMASwap:
		return b.bmaSwap(in, q)
	default:
		return b.fxSwap(in, q)
	}
}

func (b *builder) marketQuote(in Instrument, kind ratehelpers.Kind) (quote.Quote, error) {
	if in.Quote == "" {
		if in.ID == "" || b.quotes == nil {
			return nil, fmt.Errorf("no quote given and no store to look up %q", in.ID)
		}
		return b.quotes.Quote(b.ctx, b.curveDate, in.ID)
	}
	unit := defaultUnits[kind]
	if in.Unit != "" {
		unit = quote.Unit(strings.ToLower(in.Unit))
	}
	return quote.Parse(in.Quote, unit)
}

// optionalQuote parses a decimal quote; empty means absent.
func optionalQuote(s string) (quote.Quote, error) {
	if s == "" {
		return nil, nil
	}
	return quote.Parse(s, quote.UnitDecimal)
}

func (b *builder) iborIndex(name string, forwarding *curve.Handle) (*index.IborIndex, error) {
	if name == "" {
		return nil, nil
	}
	idx, err := index.Lookup(name, forwarding)
	if err != nil {
		return nil, err
	}
	if idx.History, err = b.history(idx.Name); err != nil {
		return nil, err
	}
	return idx, nil
}

func (b *builder) curveHandle(name string) (*curve.Handle, error) {
	if name == "" || name == b.curveName {
		return nil, nil
	}
	h, ok := b.handles[name]
	if !ok {
		return nil, fmt.Errorf("unknown curve %q", name)
	}
	return h, nil
}

func (b *builder) futures(in Instrument, q quote.Quote) (ratehelpers.Helper, error) {
	typ, err := futuresType(in.FuturesType)
	if err != nil {
		return nil, err
	}
	start, err := b.futuresStart(in, typ)
	if err != nil {
		return nil, err
	}
	var end time.Time
	if in.End != "" {
		if end, err = utils.ParseDate(in.End); err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
	}
	idx, err := b.iborIndex(in.Index, nil)
	if err != nil {
		return nil, err
	}
	conv, err := convention(in.Convention, calendar.ModifiedFollowing)
	if err != nil {
		return nil, err
	}
	dc, err := dayCount(in.DayCount)
	if err != nil {
		return nil, err
	}
	adj, err := optionalQuote(in.Convexity)
	if err != nil {
		return nil, fmt.Errorf("convexity: %w", err)
	}
	return ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price:               q,
		Start:               start,
		Type:                typ,
		Index:               idx,
		LengthInMonths:      in.LengthInMonths,
		Calendar:            calendar.CalendarID(in.Calendar),
		Convention:          conv,
		EndOfMonth:          in.EndOfMonth,
		End:                 end,
		DayCount:            dc,
		ConvexityAdjustment: adj,
	})
}

// futuresStart is the explicit start date, or the contract'th quarterly IMM
// or ASX date after the curve date.
func (b *builder) futuresStart(in Instrument, typ ratehelpers.FuturesType) (time.Time, error) {
	if in.Contract == 0 {
		start, err := utils.ParseDate(in.Start)
		if err != nil {
			return time.Time{}, fmt.Errorf("start: %w", err)
		}
		return start, nil
	}
	if in.Start != "" {
		return time.Time{}, fmt.Errorf("start and contract are mutually exclusive")
	}
	if in.Contract < 0 {
		return time.Time{}, fmt.Errorf("contract: %d is not positive", in.Contract)
	}
	next := calendar.NextIMMDate
	switch typ {
	case ratehelpers.FuturesASX:
		next = calendar.NextASXDate
	case ratehelpers.FuturesCustom:
		return time.Time{}, fmt.Errorf("contract: custom futures need a start date")
	}
	start := b.curveDate
	for i := 0; i < in.Contract; i++ {
		start = next(start, true)
	}
	return start, nil
}

func (b *builder) deposit(in Instrument, q quote.Quote) (ratehelpers.Helper, error) {
	idx, err := b.iborIndex(in.Index, nil)
	if err != nil {
		return nil, err
	}
	tenor, err := period(in.Tenor)
	if err != nil {
		return nil, err
	}
	conv, err := convention(in.Convention, calendar.ModifiedFollowing)
	if err != nil {
		return nil, err
	}
	dc, err := dayCount(in.DayCount)
	if err != nil {
		return nil, err
	}
	choice, custom, err := pillar(in)
	if err != nil {
		return nil, err
	}
	return ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate:             q,
		Index:            idx,
		Tenor:            tenor,
		FixingDays:       intOr(in.FixingDays, 0),
		Calendar:         calendar.CalendarID(in.Calendar),
		Convention:       conv,
		EndOfMonth:       in.EndOfMonth,
		DayCount:         dc,
		Pillar:           choice,
		CustomPillarDate: custom,
		Settings:         b.settings,
	})
}

func (b *builder) fra(in Instrument, q quote.Quote) (ratehelpers.Helper, error) {
	idx, err := b.iborIndex(in.Index, nil)
	if err != nil {
		return nil, err
	}
	toStart, err := period(in.PeriodToStart)
	if err != nil {
		return nil, err
	}
	conv, err := convention(in.Convention, calendar.ModifiedFollowing)
	if err != nil {
		return nil, err
	}
	dc, err := dayCount(in.DayCount)
	if err != nil {
		return nil, err
	}
	choice, custom, err := pillar(in)
	if err != nil {
		return nil, err
	}
	return ratehelpers.NewFRAHelper(ratehelpers.FRAConfig{
		Rate:             q,
		MonthsToStart:    in.MonthsToStart,
		MonthsToEnd:      in.MonthsToEnd,
		PeriodToStart:    toStart,
		LengthInMonths:   in.LengthInMonths,
		Index:            idx,
		FixingDays:       intOr(in.FixingDays, 0),
		Calendar:         calendar.CalendarID(in.Calendar),
		Convention:       conv,
		EndOfMonth:       in.EndOfMonth,
		DayCount:         dc,
		Pillar:           choice,
		CustomPillarDate: custom,
		Settings:         b.settings,
	})
}

func (b *builder) swap(in Instrument, q quote.Quote) (ratehelpers.Helper, error) {
	tenor, err := period(in.Tenor)
	if err != nil {
		return nil, err
	}
	var si *index.SwapIndex
	if in.SwapIndex != "" {
		if si, err = b.swapIndex(in.SwapIndex, tenor); err != nil {
			return nil, err
		}
	}
	idx, err := b.iborIndex(in.Index, nil)
	if err != nil {
		return nil, err
	}
	var freq market.Frequency
	if in.FixedFrequency != "" {
		if freq, err = market.ParseFrequency(in.FixedFrequency); err != nil {
			return nil, err
		}
	}
	conv, err := convention(in.FixedConvention, calendar.ModifiedFollowing)
	if err != nil {
		return nil, err
	}
	dc, err := dayCount(in.FixedDayCount)
	if err != nil {
		return nil, err
	}
	spread, err := optionalQuote(in.Spread)
	if err != nil {
		return nil, fmt.Errorf("spread: %w", err)
	}
	fwd, err := period(in.ForwardStart)
	if err != nil {
		return nil, err
	}
	disc, err := b.curveHandle(in.DiscountCurve)
	if err != nil {
		return nil, err
	}
	choice, custom, err := pillar(in)
	if err != nil {
		return nil, err
	}
	return ratehelpers.NewSwapHelper(ratehelpers.SwapConfig{
		Rate:             q,
		SwapIndex:        si,
		Tenor:            tenor,
		Calendar:         calendar.CalendarID(in.Calendar),
		FixedFrequency:   freq,
		FixedConvention:  conv,
		FixedDayCount:    dc,
		EndOfMonth:       in.EndOfMonth,
		IborIndex:        idx,
		Spread:           spread,
		ForwardStart:     fwd,
		DiscountingCurve: disc,
		SettlementDays:   in.SettlementDays,
		Pillar:           choice,
		CustomPillarDate: custom,
		Settings:         b.settings,
	})
}

func (b *builder) swapIndex(name string, tenor calendar.Period) (*index.SwapIndex, error) {
	if !strings.EqualFold(name, "EURSwapIsdaFixA") {
		return nil, fmt.Errorf("unknown swap index %q", name)
	}
	si := index.EURSwapIsdaFixA(tenor, nil)
	var err error
	if si.Ibor.History, err = b.history(si.Ibor.Name); err != nil {
		return nil, err
	}
	return si, nil
}

func (b *builder) bmaSwap(in Instrument, q quote.Quote) (ratehelpers.Helper, error) {
	if !strings.EqualFold(in.BMAIndex, "SIFMA") && in.BMAIndex != "" {
		return nil, fmt.Errorf("unknown bma index %q", in.BMAIndex)
	}
	bma := index.SIFMA(nil)
	var err error
	if bma.History, err = b.history(bma.Name); err != nil {
		return nil, err
	}

	forwarding, err := b.curveHandle(in.IndexCurve)
	if err != nil {
		return nil, err
	}
	if forwarding == nil {
		return nil, fmt.Errorf("bma_swap needs index_curve naming another curve")
	}
	ibor, err := b.iborIndex(in.Index, forwarding)
	if err != nil {
		return nil, err
	}
	tenor, err := period(in.Tenor)
	if err != nil {
		return nil, err
	}
	bmaPeriod, err := period(in.BMAPeriod)
	if err != nil {
		return nil, err
	}
	conv, err := convention(in.BMAConvention, calendar.Following)
	if err != nil {
		return nil, err
	}
	dc := bma.DayCount
	if in.BMADayCount != "" {
		if dc, err = market.ParseDayCount(in.BMADayCount); err != nil {
			return nil, err
		}
	}
	cal := bma.Calendar
	if in.Calendar != "" {
		cal = calendar.CalendarID(in.Calendar)
	}
	return ratehelpers.NewBMASwapHelper(ratehelpers.BMASwapConfig{
		LiborFraction:  q,
		Tenor:          tenor,
		SettlementDays: intOr(in.SettlementDays, 2),
		Calendar:       cal,
		BMAPeriod:      bmaPeriod,
		BMAConvention:  conv,
		BMADayCount:    dc,
		BMAIndex:       bma,
		IborIndex:      ibor,
		Settings:       b.settings,
	})
}

func (b *builder) fxSwap(in Instrument, q quote.Quote) (ratehelpers.Helper, error) {
	spot, err := optionalQuote(in.Spot)
	if err != nil {
		return nil, fmt.Errorf("spot: %w", err)
	}
	coll, err := b.curveHandle(in.CollateralCurve)
	if err != nil {
		return nil, err
	}
	tenor, err := period(in.Tenor)
	if err != nil {
		return nil, err
	}
	conv, err := convention(in.Convention, calendar.Following)
	if err != nil {
		return nil, err
	}
	return ratehelpers.NewFxSwapHelper(ratehelpers.FxSwapConfig{
		ForwardPoints:                      q,
		Spot:                               spot,
		Tenor:                              tenor,
		FixingDays:                         intOr(in.FixingDays, 2),
		Calendar:                           calendar.CalendarID(in.Calendar),
		Convention:                         conv,
		EndOfMonth:                         in.EndOfMonth,
		IsFxBaseCurrencyCollateralCurrency: in.BaseIsCollateral,
		CollateralCurve:                    coll,
		Settings:                           b.settings,
	})
}

func futuresType(s string) (ratehelpers.FuturesType, error) {
	switch strings.ToLower(s) {
	case "", "imm":
		return ratehelpers.FuturesIMM, nil
	case "asx":
		return ratehelpers.FuturesASX, nil
	case "custom":
		return ratehelpers.FuturesCustom, nil
	}
	return 0, fmt.Errorf("unknown futures type %q", s)
}

func pillar(in Instrument) (ratehelpers.PillarChoice, time.Time, error) {
	switch strings.ToLower(in.Pillar) {
	case "", "last_relevant":
		return ratehelpers.PillarLastRelevantDate, time.Time{}, nil
	case "maturity":
		return ratehelpers.PillarMaturityDate, time.Time{}, nil
	case "custom":
		d, err := utils.ParseDate(in.CustomPillar)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("custom_pillar: %w", err)
		}
		return ratehelpers.PillarCustomDate, d, nil
	}
	return 0, time.Time{}, fmt.Errorf("unknown pillar choice %q", in.Pillar)
}

func period(s string) (calendar.Period, error) {
	if s == "" {
		return calendar.Period{}, nil
	}
	return calendar.ParsePeriod(s)
}

func convention(s string, def calendar.BusinessDayConvention) (calendar.BusinessDayConvention, error) {
	if s == "" {
		return def, nil
	}
	return calendar.ParseConvention(s)
}

func dayCount(s string) (market.DayCount, error) {
	if s == "" {
		return "", nil
	}
	return market.ParseDayCount(s)
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
