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
	"github.com/meenmo/fwdcurve/utils"
)

var (
	imm = utils.Date(2025, time.March, 19)
	asx = utils.Date(2025, time.March, 14)
)

func TestFuturesFormsAgree(t *testing.T) {
	t.Parallel()

	byIndex, err := ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price: quote.Literal(97.5), Start: imm, Index: index.Euribor3M(nil),
	})
	require.NoError(t, err)
	byLength, err := ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price: quote.Literal(97.5), Start: imm, LengthInMonths: 3,
		Calendar: calendar.TARGET, Convention: calendar.ModifiedFollowing, DayCount: market.Act360,
	})
	require.NoError(t, err)
	byEnd, err := ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price: quote.Literal(97.5), Start: imm, End: utils.Date(2025, time.June, 19), DayCount: market.Act360,
	})
	require.NoError(t, err)

	c := flat(0.03)
	var prices []float64
	for _, h := range []*ratehelpers.FuturesHelper{byIndex, byLength, byEnd} {
		assert.Equal(t, imm, h.EarliestDate())
		assert.Equal(t, utils.Date(2025, time.June, 19), h.MaturityDate())
		assert.Equal(t, h.MaturityDate(), h.PillarDate())
		assert.Equal(t, h.MaturityDate(), h.LatestDate())
		assert.InDelta(t, 92.0/360, h.YearFraction(), 1e-15)
		require.NoError(t, h.SetTermStructure(c))
		p, err := h.ImpliedQuote()
		require.NoError(t, err)
		prices = append(prices, p)
	}
	assert.Equal(t, prices[0], prices[1])
	assert.Equal(t, prices[0], prices[2])
	assert.InDelta(t, 100*(1-simpleForward(c, byEnd, market.Act360)), prices[0], 1e-12)
}

func TestFuturesConvexityLowersPrice(t *testing.T) {
	t.Parallel()

	adj := quote.NewSimple(0)
	h, err := ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price: quote.Literal(97.5), Start: imm, Index: index.Euribor3M(nil), ConvexityAdjustment: adj,
	})
	require.NoError(t, err)
	require.NoError(t, h.SetTermStructure(flat(0.025)))

	p0, err := h.ImpliedQuote()
	require.NoError(t, err)
	adj.Set(0.001)
	p1, err := h.ImpliedQuote()
	require.NoError(t, err)
	assert.InDelta(t, p0-0.1, p1, 1e-12)

	// A quote turned negative after construction fails at pricing time.
	adj.Set(-0.001)
	_, err = h.ImpliedQuote()
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)

	// An empty adjustment is not checked until it is read.
	empty := quote.NewSimple(0)
	empty.Reset()
	h, err = ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price: quote.Literal(97.5), Start: imm, Index: index.Euribor3M(nil), ConvexityAdjustment: empty,
	})
	require.NoError(t, err)
	require.NoError(t, h.SetTermStructure(flat(0.025)))
	_, err = h.ImpliedQuote()
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)
}

func TestFuturesValidation(t *testing.T) {
	t.Parallel()

	base := func() ratehelpers.FuturesConfig {
		return ratehelpers.FuturesConfig{Price: quote.Literal(97.5), Start: imm, Index: index.Euribor3M(nil)}
	}
	cases := []struct {
		name   string
		mutate func(*ratehelpers.FuturesConfig)
		want   error
	}{
		{"imm start not imm", func(c *ratehelpers.FuturesConfig) { c.Start = asx }, ratehelpers.ErrInconsistentInstrument},
		{"asx start not asx", func(c *ratehelpers.FuturesConfig) { c.Type = ratehelpers.FuturesASX }, ratehelpers.ErrInconsistentInstrument},
		{"unknown type", func(c *ratehelpers.FuturesConfig) { c.Type = 7 }, ratehelpers.ErrInconsistentInstrument},
		{"negative convexity", func(c *ratehelpers.FuturesConfig) { c.ConvexityAdjustment = quote.Literal(-0.0001) }, ratehelpers.ErrInconsistentInstrument},
		{"length conflicts with index", func(c *ratehelpers.FuturesConfig) { c.LengthInMonths = 6 }, ratehelpers.ErrInconsistentInstrument},
		{"end conflicts with index", func(c *ratehelpers.FuturesConfig) { c.End = utils.Date(2025, time.June, 20) }, ratehelpers.ErrInconsistentInstrument},
		{"no end", func(c *ratehelpers.FuturesConfig) { c.Index = nil; c.DayCount = market.Act360 }, ratehelpers.ErrInconsistentInstrument},
		{"end before start", func(c *ratehelpers.FuturesConfig) {
			c.Type = ratehelpers.FuturesCustom
			c.Index = nil
			c.End = utils.Date(2025, time.March, 1)
			c.DayCount = market.Act360
		}, ratehelpers.ErrDateOrder},
		{"missing price", func(c *ratehelpers.FuturesConfig) { c.Price = nil }, ratehelpers.ErrInconsistentInstrument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			_, err := ratehelpers.NewFuturesHelper(cfg)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	h, err := ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price: quote.Literal(97.5), Start: asx, Type: ratehelpers.FuturesASX, Index: index.Euribor3M(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, ratehelpers.FuturesASX, h.Type())
}
