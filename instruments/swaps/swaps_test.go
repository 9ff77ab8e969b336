package swaps_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/instruments/swaps"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/utils"
)

var today = utils.MustParseDate("2025-01-15")

func fixedLeg() market.LegConvention {
	return market.LegConvention{
		LegType:               market.LegFixed,
		DayCount:              market.Dc30360,
		Tenor:                 calendar.MustParsePeriod("1Y"),
		Calendar:              calendar.TARGET,
		Convention:            calendar.ModifiedFollowing,
		TerminationConvention: calendar.ModifiedFollowing,
	}
}

func floatLeg(idx *index.IborIndex) market.LegConvention {
	return market.LegConvention{
		LegType:               market.LegFloating,
		DayCount:              idx.DayCount,
		Tenor:                 idx.Tenor,
		Calendar:              idx.Calendar,
		Convention:            idx.Convention,
		TerminationConvention: idx.Convention,
		EndOfMonth:            idx.EndOfMonth,
	}
}

func TestVanillaSwapFairRateZeroesNPV(t *testing.T) {
	t.Parallel()

	h := curve.NewHandle(curve.NewFlatForward(today, 0.025, market.Act365F, market.Continuous))
	idx := index.Euribor6M(h)
	start := idx.ValueDate(today)
	s, err := swaps.NewVanillaSwap(swaps.VanillaSwapParams{
		Today:       today,
		Start:       start,
		End:         calendar.AddPeriod(start, calendar.MustParsePeriod("5Y")),
		FixedLeg:    fixedLeg(),
		FloatingLeg: floatLeg(idx),
		Index:       idx,
		Discount:    h,
	})
	require.NoError(t, err)
	assert.Len(t, s.Fixed, 5)
	assert.Len(t, s.Floating, 10)

	fair, err := s.FairRate()
	require.NoError(t, err)
	npv, err := s.NPV(fair)
	require.NoError(t, err)
	if math.Abs(npv) > 1e-14 {
		t.Fatalf("npv at fair rate = %.3e", npv)
	}
	assert.InDelta(t, 0.0255, fair, 0.002)

	// Single-curve par swap: floating leg equals 1 - P(maturity).
	floating, err := s.FloatingLegNPV()
	require.NoError(t, err)
	disc, _ := h.Curve()
	want := disc.Discount(s.Floating[0].StartDate) - disc.Discount(s.MaturityDate())
	assert.InDelta(t, want, floating, 1e-4)
}

func TestVanillaSwapRelinkReprices(t *testing.T) {
	t.Parallel()

	h := curve.NewHandle(curve.NewFlatForward(today, 0.01, market.Act365F, market.Continuous))
	idx := index.Euribor6M(h)
	start := idx.ValueDate(today)
	s, err := swaps.NewVanillaSwap(swaps.VanillaSwapParams{
		Today: today, Start: start, End: calendar.AddPeriod(start, calendar.MustParsePeriod("2Y")),
		FixedLeg: fixedLeg(), FloatingLeg: floatLeg(idx), Index: idx, Discount: h,
	})
	require.NoError(t, err)
	low, err := s.FairRate()
	require.NoError(t, err)

	h.Link(curve.NewFlatForward(today, 0.04, market.Act365F, market.Continuous))
	high, err := s.FairRate()
	require.NoError(t, err)
	assert.Greater(t, high, low+0.02)

	h.Link(nil)
	_, err = s.FairRate()
	assert.ErrorIs(t, err, curve.ErrEmptyHandle)
}

func TestVanillaSwapNeedsPastFixing(t *testing.T) {
	t.Parallel()

	h := curve.NewHandle(curve.NewFlatForward(today, 0.02, market.Act365F, market.Continuous))
	idx := index.Euribor6M(h)
	// Started a month ago: the first coupon fixed in the past.
	start := utils.MustParseDate("2024-12-16")
	p := swaps.VanillaSwapParams{
		Today: today, Start: start, End: calendar.AddPeriod(start, calendar.MustParsePeriod("2Y")),
		FixedLeg: fixedLeg(), FloatingLeg: floatLeg(idx), Index: idx, Discount: h,
	}
	s, err := swaps.NewVanillaSwap(p)
	require.NoError(t, err)
	_, err = s.FloatingLegNPV()
	assert.ErrorIs(t, err, index.ErrMissingFixing)
}

func TestBMASwapFlatCurves(t *testing.T) {
	t.Parallel()

	// Wednesday evaluation: the first weekly fixing is today, so nothing
	// needs history.
	flat := curve.NewFlatForward(today, 0.03, market.Act365F, market.Continuous)
	ibor := index.USDLibor(calendar.MustParsePeriod("3M"), curve.NewHandle(flat))
	bma := index.SIFMA(curve.NewHandle(flat))
	start := calendar.AddBusinessDays(calendar.USD, today, 2)
	s, err := swaps.NewBMASwap(swaps.BMASwapParams{
		Today: today,
		Start: start,
		End:   calendar.AddPeriod(start, calendar.MustParsePeriod("2Y")),
		BMALeg: market.LegConvention{
			DayCount: market.ActAct, Tenor: calendar.MustParsePeriod("3M"), Calendar: calendar.USD,
			Convention: calendar.Following, TerminationConvention: calendar.Following,
		},
		IborLeg: floatLeg(ibor),
		BMA:     bma,
		Ibor:    ibor,
	})
	require.NoError(t, err)
	require.Len(t, s.BMA, 8)

	frac, err := s.FairLiborFraction()
	require.NoError(t, err)
	// Same curve on both legs: only compounding and day counts differ.
	assert.InDelta(t, 1.0, frac, 0.03)

	rate, err := s.BMA[0].Rate(bma, today)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, rate, 0.002)
}
