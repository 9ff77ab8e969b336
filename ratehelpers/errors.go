package ratehelpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/utils"
)

var (
	ErrCurveNotSet            = errors.New("term structure not set")
	ErrInvalidPillar          = errors.New("invalid pillar date")
	ErrInconsistentInstrument = errors.New("inconsistent instrument")
	ErrDateOrder              = errors.New("dates out of order")
)

// CurveNotSetError is returned when a helper is asked for its implied quote
// before the curve it reads from has been linked.
type CurveNotSetError struct {
	Kind  Kind
	Curve string
}

func (e *CurveNotSetError) Error() string {
	return fmt.Sprintf("%s helper: %s: %s", e.Kind, e.Curve, ErrCurveNotSet)
}

func (e *CurveNotSetError) Is(target error) bool { return target == ErrCurveNotSet }

// InvalidPillarError reports a custom pillar outside the instrument's
// relevant date range, or an unknown pillar choice.
type InvalidPillarError struct {
	Kind     Kind
	Pillar   time.Time
	Earliest time.Time
	Latest   time.Time
	Reason   string
}

func (e *InvalidPillarError) Error() string {
	return fmt.Sprintf("%s helper: %s %s: %s (range %s to %s)", e.Kind, ErrInvalidPillar,
		formatDate(e.Pillar), e.Reason, formatDate(e.Earliest), formatDate(e.Latest))
}

func (e *InvalidPillarError) Is(target error) bool { return target == ErrInvalidPillar }

// InconsistentInstrumentError reports missing, conflicting or out-of-range
// construction parameters.
type InconsistentInstrumentError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *InconsistentInstrumentError) Error() string {
	return fmt.Sprintf("%s helper: %s: %s: %s", e.Kind, ErrInconsistentInstrument, e.Field, e.Reason)
}

func (e *InconsistentInstrumentError) Is(target error) bool {
	return target == ErrInconsistentInstrument
}

// DateOrderError reports an instrument whose start is not before its end.
type DateOrderError struct {
	Kind  Kind
	Start time.Time
	End   time.Time
}

func (e *DateOrderError) Error() string {
	return fmt.Sprintf("%s helper: %s: start %s not before end %s", e.Kind, ErrDateOrder, formatDate(e.Start), formatDate(e.End))
}

func (e *DateOrderError) Is(target error) bool { return target == ErrDateOrder }

func inconsistent(kind Kind, field, format string, args ...any) error {
	return &InconsistentInstrumentError{Kind: kind, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unset"
	}
	return t.Format(utils.DateLayout)
}
