package bootstrap_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/bootstrap"
	"github.com/meenmo/fwdcurve/calendar"
	"github.com/meenmo/fwdcurve/config"
	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/index"
	"github.com/meenmo/fwdcurve/market"
	"github.com/meenmo/fwdcurve/metrics"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/settings"
	"github.com/meenmo/fwdcurve/utils"
)

var today = utils.Date(2025, time.January, 15)

func deposit(t *testing.T, s *settings.Settings, rate float64, tenor string) *ratehelpers.DepositHelper {
	t.Helper()
	h, err := ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate:     quote.Literal(rate),
		Index:    index.Euribor(calendar.MustParsePeriod(tenor), nil),
		Settings: s,
	})
	require.NoError(t, err)
	return h
}

func swap(t *testing.T, s *settings.Settings, rate float64, tenor string) *ratehelpers.SwapHelper {
	t.Helper()
	h, err := ratehelpers.NewSwapHelper(ratehelpers.SwapConfig{
		Rate:      quote.Literal(rate),
		SwapIndex: index.EURSwapIsdaFixA(calendar.MustParsePeriod(tenor), nil),
		IborIndex: index.Euribor6M(nil),
		Settings:  s,
	})
	require.NoError(t, err)
	return h
}

func requireReprices(t *testing.T, helpers []ratehelpers.Helper) {
	t.Helper()
	for _, h := range helpers {
		q, err := h.Quote().Value()
		require.NoError(t, err)
		implied, err := h.ImpliedQuote()
		require.NoError(t, err)
		assert.InDelta(t, q, implied, 1e-10, "%s helper at %s", h.Kind(), h.PillarDate().Format(utils.DateLayout))
	}
}

func silent() logrus.FieldLogger {
	l, _ := logtest.NewNullLogger()
	return l
}

func TestBootstrapDepositAndSwap(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	helpers := []ratehelpers.Helper{
		swap(t, s, 0.025, "5Y"),
		deposit(t, s, 0.02, "3M"),
	}
	c := curve.NewPiecewise(today, market.Act365F)
	logger, hook := logtest.NewNullLogger()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	res, err := bootstrap.Bootstrap(context.Background(), c, helpers, bootstrap.Options{
		Name: "EUR6M", Logger: logger, Metrics: m,
	})
	require.NoError(t, err)
	requireReprices(t, helpers)

	require.Len(t, res.Nodes, 2)
	assert.Equal(t, ratehelpers.KindDeposit, res.Nodes[0].Kind)
	assert.Equal(t, ratehelpers.KindSwap, res.Nodes[1].Kind)
	assert.True(t, res.Nodes[0].Pillar.Before(res.Nodes[1].Pillar))
	assert.Equal(t, 1, res.Passes)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, c.NodeCount())
	assert.Less(t, res.Nodes[1].Discount, res.Nodes[0].Discount)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "curve bootstrapped", last.Message)
	assert.Equal(t, res.RunID, last.Data["run_id"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("EUR6M", "ok")))
}

func TestBootstrapStrip(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	fra, err := ratehelpers.NewFRAHelper(ratehelpers.FRAConfig{
		Rate: quote.Literal(0.022), MonthsToStart: 3, MonthsToEnd: 6, Index: index.Euribor3M(nil), Settings: s,
	})
	require.NoError(t, err)
	fut, err := ratehelpers.NewFuturesHelper(ratehelpers.FuturesConfig{
		Price: quote.Literal(97.6), Start: utils.Date(2025, time.September, 17), Index: index.Euribor3M(nil),
		ConvexityAdjustment: quote.Literal(0.0001),
	})
	require.NoError(t, err)
	helpers := []ratehelpers.Helper{
		deposit(t, s, 0.02, "3M"),
		fra,
		fut,
		swap(t, s, 0.0235, "2Y"),
		swap(t, s, 0.024, "3Y"),
		swap(t, s, 0.0255, "5Y"),
		swap(t, s, 0.027, "10Y"),
	}
	c := curve.NewPiecewise(today, market.Act365F)
	res, err := bootstrap.Bootstrap(context.Background(), c, helpers, bootstrap.Options{Logger: silent()})
	require.NoError(t, err)
	requireReprices(t, helpers)

	for i := 1; i < len(res.Nodes); i++ {
		assert.True(t, res.Nodes[i].Pillar.After(res.Nodes[i-1].Pillar))
		assert.Less(t, res.Nodes[i].Discount, res.Nodes[i-1].Discount)
	}
}

func TestBootstrapNonLocalPillarIterates(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	short, err := ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{
		Rate:             quote.Literal(0.02),
		Index:            index.Euribor3M(nil),
		Pillar:           ratehelpers.PillarCustomDate,
		CustomPillarDate: utils.Date(2025, time.March, 3),
		Settings:         s,
	})
	require.NoError(t, err)
	helpers := []ratehelpers.Helper{short, deposit(t, s, 0.023, "6M")}

	c := curve.NewPiecewise(today, market.Act365F)
	res, err := bootstrap.Bootstrap(context.Background(), c, helpers, bootstrap.Options{Logger: silent()})
	require.NoError(t, err)
	assert.Greater(t, res.Passes, 1)
	requireReprices(t, helpers)
}

func TestBootstrapValidation(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	c := curve.NewPiecewise(today, market.Act365F)
	opts := bootstrap.Options{Logger: silent()}

	_, err := bootstrap.Bootstrap(context.Background(), c, nil, opts)
	assert.ErrorIs(t, err, bootstrap.ErrNoHelpers)

	_, err = bootstrap.Bootstrap(context.Background(), c, []ratehelpers.Helper{
		deposit(t, s, 0.02, "3M"), deposit(t, s, 0.021, "3M"),
	}, opts)
	assert.ErrorIs(t, err, bootstrap.ErrDuplicatePillar)

	empty := quote.NewSimple(0)
	empty.Reset()
	h, err := ratehelpers.NewDepositHelper(ratehelpers.DepositConfig{Rate: empty, Index: index.Euribor3M(nil), Settings: s})
	require.NoError(t, err)
	_, err = bootstrap.Bootstrap(context.Background(), c, []ratehelpers.Helper{h, swap(t, s, 0.025, "5Y")}, opts)
	assert.ErrorIs(t, err, quote.ErrEmptyQuote)

	bad := config.DefaultConfig.Solver
	bad.MaxPasses = 0
	_, err = bootstrap.Bootstrap(context.Background(), c, []ratehelpers.Helper{deposit(t, s, 0.02, "3M")}, bootstrap.Options{Solver: &bad})
	assert.Error(t, err)
}

func TestBootstrapCalibrationError(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	c := curve.NewPiecewise(today, market.Act365F)
	_, err := bootstrap.Bootstrap(context.Background(), c, []ratehelpers.Helper{deposit(t, s, 5.0, "3M")}, bootstrap.Options{Logger: silent()})
	require.Error(t, err)
	var calErr *bootstrap.CalibrationError
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, ratehelpers.KindDeposit, calErr.Kind)
	assert.Equal(t, 5.0, calErr.Quote)
	assert.ErrorIs(t, err, bootstrap.ErrRootNotBracketed)
}

func TestBootstrapCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := settings.New(today)
	c := curve.NewPiecewise(today, market.Act365F)
	_, err := bootstrap.Bootstrap(ctx, c, []ratehelpers.Helper{deposit(t, s, 0.02, "3M")}, bootstrap.Options{Logger: silent()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunJobs(t *testing.T) {
	t.Parallel()

	s := settings.New(today)
	eur := []ratehelpers.Helper{deposit(t, s, 0.02, "3M"), swap(t, s, 0.025, "5Y")}
	eurHigh := []ratehelpers.Helper{deposit(t, s, 0.03, "3M"), swap(t, s, 0.035, "5Y")}
	jobs := []bootstrap.Job{
		{Name: "EUR", Curve: curve.NewPiecewise(today, market.Act365F), Helpers: eur},
		{Name: "EUR-HIGH", Curve: curve.NewPiecewise(today, market.Act365F), Helpers: eurHigh},
	}
	solver := config.DefaultConfig.Solver
	solver.ParallelJobs = 2
	results, err := bootstrap.RunJobs(context.Background(), jobs, bootstrap.Options{Solver: &solver, Logger: silent()})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "EUR", results[0].Name)
	assert.Equal(t, "EUR-HIGH", results[1].Name)
	assert.NotEqual(t, results[0].RunID, results[1].RunID)
	requireReprices(t, eur)
	requireReprices(t, eurHigh)

	jobs = append(jobs, bootstrap.Job{Name: "EMPTY", Curve: curve.NewPiecewise(today, market.Act365F)})
	_, err = bootstrap.RunJobs(context.Background(), jobs, bootstrap.Options{Solver: &solver, Logger: silent()})
	assert.ErrorIs(t, err, bootstrap.ErrNoHelpers)
}
