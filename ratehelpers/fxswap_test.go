package ratehelpers_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/settings"
	"github.com/meenmo/fwdcurve/utils"
)

func fxConfig(coll *curve.Handle, baseIsColl bool) ratehelpers.FxSwapConfig {
	return ratehelpers.FxSwapConfig{
		ForwardPoints:                      quote.Literal(0.005),
		Spot:                               quote.Literal(1.1),
		Tenor:                              calendar.MustParsePeriod("3M"),
		FixingDays:                         2,
		Calendar:                           calendar.TARGET,
		Convention:                         calendar.Following,
		IsFxBaseCurrencyCollateralCurrency: baseIsColl,
		CollateralCurve:                    coll,
		Settings:                           settings.New(today),
	}
}

func TestFxSwapClosedForm(t *testing.T) {
	t.Parallel()

	h, err := ratehelpers.NewFxSwapHelper(fxConfig(curve.NewHandle(flat(0.01)), true))
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2025, time.January, 17), h.EarliestDate())
	assert.Equal(t, utils.Date(2025, time.April, 17), h.MaturityDate())
	assert.Equal(t, h.MaturityDate(), h.PillarDate())

	require.NoError(t, h.SetTermStructure(flat(0.04)))
	got, err := h.ImpliedQuote()
	require.NoError(t, err)
	tau := market.Act365F.YearFraction(h.EarliestDate(), h.MaturityDate())
	assert.InDelta(t, (math.Exp((0.04-0.01)*tau)-1)*1.1, got, 1e-12)
}

func TestFxSwapOrientationIsSymmetric(t *testing.T) {
	t.Parallel()

	a, b := flat(0.04), flat(0.01)
	direct, err := ratehelpers.NewFxSwapHelper(fxConfig(curve.NewHandle(b), true))
	require.NoError(t, err)
	require.NoError(t, direct.SetTermStructure(a))
	flipped, err := ratehelpers.NewFxSwapHelper(fxConfig(curve.NewHandle(a), false))
	require.NoError(t, err)
	require.NoError(t, flipped.SetTermStructure(b))

	x, err := direct.ImpliedQuote()
	require.NoError(t, err)
	y, err := flipped.ImpliedQuote()
	require.NoError(t, err)
	assert.InDelta(t, x, y, 1e-15)
	assert.True(t, direct.IsFxBaseCurrencyCollateralCurrency())
	assert.False(t, flipped.IsFxBaseCurrencyCollateralCurrency())
}

func TestFxSwapCurves(t *testing.T) {
	t.Parallel()

	coll := curve.NewHandle(nil)
	h, err := ratehelpers.NewFxSwapHelper(fxConfig(coll, true))
	require.NoError(t, err)

	_, err = h.ImpliedQuote()
	var notSet *ratehelpers.CurveNotSetError
	require.True(t, errors.As(err, &notSet))
	assert.Equal(t, "term structure", notSet.Curve)

	require.NoError(t, h.SetTermStructure(flat(0.02)))
	_, err = h.ImpliedQuote()
	require.True(t, errors.As(err, &notSet))
	assert.Equal(t, "collateral curve", notSet.Curve)

	// Equal curves leave no forward points.
	coll.Link(flat(0.02))
	got, err := h.ImpliedQuote()
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 1e-15)

	_, err = ratehelpers.NewFxSwapHelper(fxConfig(nil, true))
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)

	cfg := fxConfig(coll, true)
	cfg.Spot = nil
	_, err = ratehelpers.NewFxSwapHelper(cfg)
	assert.ErrorIs(t, err, ratehelpers.ErrInconsistentInstrument)
}
