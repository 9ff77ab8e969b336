// Package index models interest rate indexes: their fixing and value date
// rules, forecasting off a forwarding curve, and past fixings.
package index

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/utils"
)

// ErrMissingFixing is returned when a past fixing is needed but not recorded.
var ErrMissingFixing = errors.New("missing fixing")

// FixingSource supplies past index fixings as decimals.
type FixingSource interface {
	RateOn(date time.Time) (float64, bool)
}

// MissingFixingError names the index and date of an unavailable fixing.
type MissingFixingError struct {
	Index string
	Date  time.Time
}

func (e *MissingFixingError) Error() string {
	return fmt.Sprintf("%s: %s fixing on %s", ErrMissingFixing, e.Index, e.Date.Format(utils.DateLayout))
}

func (e *MissingFixingError) Unwrap() error { return ErrMissingFixing }

// forecaster is the part an index needs to turn a fixing date into a rate.
type forecaster interface {
	name() string
	history() FixingSource
	forecast(fixingDate time.Time) (float64, error)
}

// fixing returns the historical value for dates before today, today's value
// when recorded, and a forecast otherwise.
func fixing(f forecaster, fixingDate, today time.Time) (float64, error) {
	if h := f.history(); h != nil && !fixingDate.After(today) {
		if v, ok := h.RateOn(fixingDate); ok {
			return v, nil
		}
	}
	if fixingDate.Before(today) {
		return 0, &MissingFixingError{Index: f.name(), Date: fixingDate}
	}
	return f.forecast(fixingDate)
}

func forwardingCurve(h *curve.Handle, name string) (curve.Curve, error) {
	c, err := h.Curve()
	if err != nil {
		return nil, fmt.Errorf("%s forwarding curve: %w", name, err)
	}
	return c, nil
}
