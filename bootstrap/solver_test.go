package bootstrap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/config"
)

func TestSolveNode(t *testing.T) {
	t.Parallel()

	s := config.DefaultConfig.Solver
	f := func(x float64) (float64, error) { return math.Log(x) + 0.05, nil }
	x, evals, err := solveNode(f, 0.99, 0.5, 1.2, s)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.05), x, 1e-12)
	assert.Less(t, evals, 20)

	// A flat objective sends Newton to the bisection fallback.
	step := func(x float64) (float64, error) {
		if x < 0.9 {
			return -1, nil
		}
		return 1, nil
	}
	x, _, err = solveNode(step, 0.99, 0.5, 1.2, s)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, x, 1e-12)

	_, _, err = solveNode(func(float64) (float64, error) { return 1, nil }, 0.99, 0.5, 1.2, s)
	assert.ErrorIs(t, err, ErrRootNotBracketed)
}
