package ratehelpers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/settings"
	"github.com/meenmo/fwdcurve/utils"
)

func TestDepositExplicitMatchesIndex(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	byIndex := newDeposit(t, s, quote.Literal(0.02))
	explicit, err := ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate:       quote.Literal(0.02),
		Tenor:      calendar.MustParsePeriod("3M"),
		FixingDays: 2,
		Calendar:   calendar.TARGET,
		Convention: calendar.ModifiedFollowing,
		EndOfMonth: true,
		DayCount:   market.Act360,
		Settings:   s,
	})
	require.NoError(t, err)

	c := flat(0.02)
	for _, h := range []*ratehelpers.DepositHelper{byIndex, explicit} {
		assert.Equal(t, utils.Date(2025, time.January, 17), h.EarliestDate())
		assert.Equal(t, utils.Date(2025, time.April, 17), h.MaturityDate())
		assert.Equal(t, today, h.FixingDate())
		require.NoError(t, h.SetTermStructure(c))
	}
	a, err := byIndex.ImpliedQuote()
	require.NoError(t, err)
	b, err := explicit.ImpliedQuote()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.InDelta(t, simpleForward(c, byIndex, market.Act360), a, 1e-14)
}

func TestDepositDoesNotTouchCallerIndex(t *testing.T) {
	t.Parallel()

	idx := index.Euribor3M(nil)
	h, err := ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate: quote.Literal(0.02), Index: idx, Settings: settings.New(today),
	})
	require.NoError(t, err)
	require.NoError(t, h.SetTermStructure(flat(0.02)))
	assert.Nil(t, idx.ForwardingCurve())
	assert.NotNil(t, h.Index().ForwardingCurve())
}

func TestDepositValidation(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	_, err := ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate: quote.Literal(0.02), Index: index.Euribor3M(nil), Tenor: calendar.MustParsePeriod("6M"), Settings: s,
	})
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)

	_, err = ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate: quote.Literal(0.02), Index: index.Euribor3M(nil), DayCount: market.Act365F, Settings: s,
	})
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)

	_, err = ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate: quote.Literal(0.02), Tenor: calendar.MustParsePeriod("3M"), Settings: s,
	})
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)

	_, err = ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate: quote.Literal(0.02), Index: index.Euribor3M(nil),
		Pillar: ratehelpers.PillarCustomDate, CustomPillarDate: utils.Date(2025, time.May, 1), Settings: s,
	})
	assert.ErrorIs(t, err, ratehelpers.ErrInvalidPillar)
}

func TestFRAStylesAgree(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	oneByFour, err := ratehelpers.NewFRAHelper(ratehelpers.FRAConfig{
		Rate: quote.Literal(0.025), MonthsToStart: 1, MonthsToEnd: 4, Index: index.Euribor3M(nil), Settings: s,
	})
	require.NoError(t, err)
	byPeriod, err := ratehelpers.NewFRAHelper(ratehelpers.FRAConfig{
		Rate: quote.Literal(0.025), PeriodToStart: calendar.MustParsePeriod("1M"), Index: index.Euribor3M(nil), Settings: s,
	})
	require.NoError(t, err)
	explicit, err := ratehelpers.NewFRAHelper(ratehelpers.FRAConfig{
		Rate: quote.Literal(0.025), PeriodToStart: calendar.MustParsePeriod("1M"), LengthInMonths: 3,
		FixingDays: 2, Calendar: calendar.TARGET, Convention: calendar.ModifiedFollowing, EndOfMonth: true,
		DayCount: market.Act360, Settings: s,
	})
	require.NoError(t, err)

	c := flat(0.025)
	var quotes []float64
	for _, h := range []*ratehelpers.FRAHelper{oneByFour, byPeriod, explicit} {
		assert.Equal(t, utils.Date(2025, time.February, 17), h.EarliestDate())
		assert.Equal(t, utils.Date(2025, time.May, 19), h.MaturityDate())
		assert.Equal(t, utils.Date(2025, time.February, 13), h.FixingDate())
		require.NoError(t, h.SetTermStructure(c))
		q, err := h.ImpliedQuote()
		require.NoError(t, err)
		quotes = append(quotes, q)
	}
	assert.Equal(t, quotes[0], quotes[1])
	assert.Equal(t, quotes[0], quotes[2])
	assert.InDelta(t, simpleForward(c, oneByFour, market.Act360), quotes[0], 1e-14)
}

func TestFRAValidation(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	_, err := ratehelpers.NewFRAHelper(ratehelpers.FRAConfig{
		Rate: quote.Literal(0.025), MonthsToStart: 4, MonthsToEnd: 1, Index: index.Euribor3M(nil), Settings: s,
	})
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)

	_, err = ratehelpers.NewFRAHelper(ratehelpers.FRAConfig{
		Rate: quote.Literal(0.025), MonthsToStart: 3, MonthsToEnd: 9, Index: index.Euribor3M(nil), Settings: s,
	})
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument, "6M length against a 3M index")

	_, err = ratehelpers.NewFRAHelper(ratehelpers.FRAConfig{
		Rate: quote.Literal(0.025), MonthsToStart: 1, MonthsToEnd: 4,
		PeriodToStart: calendar.MustParsePeriod("2M"), Index: index.Euribor3M(nil), Settings: s,
	})
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)
}
