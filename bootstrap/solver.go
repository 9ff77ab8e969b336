package bootstrap

import (
	"fmt"
	"math"

	"github.com/meenmo/fwdcurve/config"
)

// solveNode finds x in [lo, hi] with f(x) = 0, starting Newton from guess
// with a forward-difference derivative and falling back to bisection when
// a step leaves the bracket or the slope vanishes. It returns the root and
// the number of objective evaluations.
func solveNode(f func(float64) (float64, error), guess, lo, hi float64, s config.Solver) (float64, int, error) {
	x := math.Min(math.Max(guess, lo), hi)
	evals := 0
	eval := func(v float64) (float64, error) {
		evals++
		return f(v)
	}

	for iter := 0; iter < s.MaxIterations; iter++ {
		fx, err := eval(x)
		if err != nil {
			return x, evals, err
		}
		if math.Abs(fx) < s.Accuracy {
			return x, evals, nil
		}
		h := math.Max(1e-8*x, 1e-14)
		fh, err := eval(x + h)
		if err != nil {
			return x, evals, err
		}
		slope := (fh - fx) / h
		if math.Abs(slope) < s.DerivativeThreshold {
			break
		}
		next := x - fx/slope
		if next <= lo || next >= hi || math.IsNaN(next) {
			break
		}
		if math.Abs(next-x) <= 1e-15*x {
			return next, evals, nil
		}
		x = next
	}

	root, n, err := bisect(f, lo, hi, s)
	return root, evals + n, err
}

func bisect(f func(float64) (float64, error), lo, hi float64, s config.Solver) (float64, int, error) {
	flo, err := f(lo)
	if err != nil {
		return lo, 1, err
	}
	fhi, err := f(hi)
	if err != nil {
		return hi, 2, err
	}
	evals := 2
	if flo*fhi > 0 {
		return lo, evals, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrRootNotBracketed, lo, flo, hi, fhi)
	}
	for iter := 0; iter < 4*s.MaxIterations; iter++ {
		mid := lo + (hi-lo)/2
		fm, err := f(mid)
		evals++
		if err != nil {
			return mid, evals, err
		}
		if math.Abs(fm) < s.Accuracy || hi-lo <= 1e-15*mid {
			return mid, evals, nil
		}
		if (fm < 0) == (flo < 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2, evals, fmt.Errorf("%w after %d evaluations", ErrNotConverged, evals)
}
