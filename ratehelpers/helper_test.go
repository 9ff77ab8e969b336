package ratehelpers_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/settings"
	"github.com/meenmo/fwdcurve/utils"
)

// today is a Wednesday so BMA coupons need no fixing history.
var today = utils.Date(2025, time.January, 15)

func flat(rate float64) curve.Curve {
	return curve.NewFlatForward(today, rate, market.Act365F, market.Continuous)
}

// simpleForward is the closed-form simple rate implied by c between the
// helper's earliest and maturity dates.
func simpleForward(c curve.Curve, h ratehelpers.Helper, dc market.DayCount) float64 {
	s, e := h.EarliestDate(), h.MaturityDate()
	return (c.Discount(s)/c.Discount(e) - 1) / dc.YearFraction(s, e)
}

func newDeposit(t *testing.T, s *settings.Settings, rate quote.Quote) *ratehelpers.DepositHelper {
	t.Helper()
	h, err := ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate:     rate,
		Index:    index.Euribor3M(nil),
		Settings: s,
	})
	require.NoError(t, err)
	return h
}

func TestResolvePillar(t *testing.T) {
	t.Parallel()

	d := ratehelpers.PillarDates{
		Earliest:       utils.Date(2025, time.January, 17),
		Maturity:       utils.Date(2025, time.April, 17),
		LatestRelevant: utils.Date(2025, time.April, 22),
	}
	cases := []struct {
		name    string
		choice  ratehelpers.PillarChoice
		custom  time.Time
		want    time.Time
		wantErr bool
	}{
		{"maturity", ratehelpers.PillarMaturityDate, time.Time{}, d.Maturity, false},
		{"last relevant", ratehelpers.PillarLastRelevantDate, time.Time{}, d.LatestRelevant, false},
		{"custom inside", ratehelpers.PillarCustomDate, utils.Date(2025, time.March, 3), utils.Date(2025, time.March, 3), false},
		{"custom on earliest", ratehelpers.PillarCustomDate, d.Earliest, d.Earliest, false},
		{"custom on latest", ratehelpers.PillarCustomDate, d.LatestRelevant, d.LatestRelevant, false},
		{"custom before", ratehelpers.PillarCustomDate, utils.Date(2025, time.January, 16), time.Time{}, true},
		{"custom after", ratehelpers.PillarCustomDate, utils.Date(2025, time.April, 23), time.Time{}, true},
		{"custom missing", ratehelpers.PillarCustomDate, time.Time{}, time.Time{}, true},
		{"unknown", ratehelpers.PillarChoice(9), time.Time{}, time.Time{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ratehelpers.ResolvePillar(ratehelpers.KindDeposit, tc.choice, tc.custom, d)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ratehelpers.ErrInvalidPillar)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCurveNotSetBeforeLinking(t *testing.T) {
	t.Parallel()

	h := newDeposit(t, settings.New(today), quote.Literal(0.02))
	_, err := h.ImpliedQuote()
	require.ErrorIs(t, err, ratehelpers.ErrCurveNotSet)
	var notSet *ratehelpers.CurveNotSetError
	require.True(t, errors.As(err, &notSet))
	assert.Equal(t, "term structure", notSet.Curve)
	assert.Equal(t, ratehelpers.KindDeposit, notSet.Kind)

	_, err = h.QuoteError()
	assert.ErrorIs(t, err, ratehelpers.ErrCurveNotSet)
}

func TestQuoteErrorIsObservedMinusImplied(t *testing.T) {
	t.Parallel()

	q := quote.NewSimple(0.031)
	h := newDeposit(t, settings.New(today), q)
	c := flat(0.03)
	require.NoError(t, h.SetTermStructure(c))

	implied, err := h.ImpliedQuote()
	require.NoError(t, err)
	qe, err := h.QuoteError()
	require.NoError(t, err)
	assert.InDelta(t, 0.031-implied, qe, 1e-15)

	q.Set(implied)
	qe, err = h.QuoteError()
	require.NoError(t, err)
	assert.Equal(t, 0.0, qe)

	q.Reset()
	_, err = h.QuoteError()
	assert.ErrorIs(t, err, quote.ErrEmptyQuote)
}

func TestRelinkingReadsNewCurve(t *testing.T) {
	t.Parallel()

	h := newDeposit(t, settings.New(today), quote.Literal(0.02))
	require.NoError(t, h.SetTermStructure(flat(0.01)))
	low, err := h.ImpliedQuote()
	require.NoError(t, err)
	require.NoError(t, h.SetTermStructure(flat(0.05)))
	high, err := h.ImpliedQuote()
	require.NoError(t, err)
	assert.InDelta(t, simpleForward(flat(0.05), h, market.Act360), high, 1e-14)
	assert.Greater(t, high, low)
}

func TestEvaluationDateMoveReinitializes(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	h := newDeposit(t, s, quote.Literal(0.02))
	assert.Equal(t, utils.Date(2025, time.January, 17), h.EarliestDate())
	assert.Equal(t, utils.Date(2025, time.April, 17), h.MaturityDate())

	// Unchanged evaluation date leaves the dates alone.
	require.NoError(t, h.Update())
	assert.Equal(t, today, h.EvaluationDate())

	s.SetEvaluationDate(utils.Date(2025, time.February, 3))
	require.NoError(t, h.Update())
	assert.Equal(t, utils.Date(2025, time.February, 3), h.EvaluationDate())
	assert.Equal(t, utils.Date(2025, time.February, 5), h.EarliestDate())
	assert.Equal(t, utils.Date(2025, time.May, 5), h.MaturityDate())
	assert.Equal(t, h.MaturityDate(), h.PillarDate())
}

func TestEvaluationDateMoveFailureKeepsState(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	custom := utils.Date(2025, time.March, 3)
	h, err := ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate:             quote.Literal(0.02),
		Index:            index.Euribor3M(nil),
		Pillar:           ratehelpers.PillarCustomDate,
		CustomPillarDate: custom,
		Settings:         s,
	})
	require.NoError(t, err)
	assert.Equal(t, custom, h.PillarDate())
	assert.Equal(t, h.MaturityDate(), h.LatestDate())

	s.SetEvaluationDate(utils.Date(2025, time.June, 2))
	err = h.Update()
	require.ErrorIs(t, err, ratehelpers.ErrInvalidPillar)
	assert.Equal(t, today, h.EvaluationDate())
	assert.Equal(t, utils.Date(2025, time.January, 17), h.EarliestDate())
}

func TestVisitorDispatch(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	dep := newDeposit(t, s, quote.Literal(0.02))
	fut, err := ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price: quote.Literal(97.5),
		Start: utils.Date(2025, time.March, 19),
		Index: index.Euribor3M(nil),
	})
	require.NoError(t, err)

	var seen []ratehelpers.Kind
	v := ratehelpers.VisitorFuncs{
		Deposit: func(h *ratehelpers.DepositHelper) { seen = append(seen, h.Kind()) },
		Futures: func(h *ratehelpers.FuturesHelper) { seen = append(seen, h.Kind()) },
	}
	for _, h := range []ratehelpers.Helper{dep, fut} {
		h.Accept(v)
	}
	assert.Equal(t, []ratehelpers.Kind{ratehelpers.KindDeposit, ratehelpers.KindFutures}, seen)

	// Variants without a callback are ignored.
	ratehelpers.VisitorFuncs{}.VisitDeposit(dep)
}

func TestKindRoundTrip(t *testing.T) {
	t.Parallel()

	for _, k := range []ratehelpers.Kind{
		ratehelpers.KindFutures, ratehelpers.KindDeposit, ratehelpers.KindFRA,
		ratehelpers.KindSwap, ratehelpers.KindBMASwap, ratehelpers.KindFxSwap,
	} {
		got, err := ratehelpers.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ratehelpers.ParseKind("cap")
	assert.Error(t, err)
}
