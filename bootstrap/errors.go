package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/utils"
)

var (
	ErrNoHelpers        = errors.New("no helpers")
	ErrDuplicatePillar  = errors.New("duplicate pillar")
	ErrPillarBeforeRef  = errors.New("pillar not after reference date")
	ErrRootNotBracketed = errors.New("root not bracketed")
	ErrNotConverged     = errors.New("not converged")
)

// CalibrationError ties a failed node solve to the helper that drove it.
type CalibrationError struct {
	Pillar time.Time
	Kind   ratehelpers.Kind
	Quote  float64
	Err    error
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("calibrate %s helper at %s (quote %g): %v", e.Kind, e.Pillar.Format(utils.DateLayout), e.Quote, e.Err)
}

func (e *CalibrationError) Unwrap() error { return e.Err }
