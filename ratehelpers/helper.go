// Package ratehelpers adapts market instruments to curve bootstrapping. Each
// helper knows the dates at which its instrument depends on a curve and can
// price its quote off whatever curve is currently linked.
package ratehelpers

import (
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/settings"
	"github.com/meenmo/fwdcurve/utils"
)

// Helper is a calibration instrument. ImpliedQuote reads the linked curve
// and never writes to it.
type Helper interface {
	Kind() Kind
	Quote() quote.Quote
	ImpliedQuote() (float64, error)
	// QuoteError is observed minus implied; the bootstrap drives it to zero.
	QuoteError() (float64, error)
	SetTermStructure(c curve.Curve) error
	Update() error

	EarliestDate() time.Time
	MaturityDate() time.Time
	LatestRelevantDate() time.Time
	PillarDate() time.Time
	LatestDate() time.Time

	Accept(v Visitor)
}

type base struct {
	kind          Kind
	quote         quote.Quote
	termStructure *curve.Handle
	implied       func() (float64, error)

	earliest       time.Time
	maturity       time.Time
	latestRelevant time.Time
	pillar         time.Time
	latest         time.Time
}

func newBase(kind Kind, q quote.Quote) base {
	return base{kind: kind, quote: q, termStructure: curve.NewHandle(nil)}
}

func (b *base) Kind() Kind                    { return b.kind }
func (b *base) Quote() quote.Quote            { return b.quote }
func (b *base) EarliestDate() time.Time       { return b.earliest }
func (b *base) MaturityDate() time.Time       { return b.maturity }
func (b *base) LatestRelevantDate() time.Time { return b.latestRelevant }
func (b *base) PillarDate() time.Time         { return b.pillar }
func (b *base) LatestDate() time.Time         { return b.latest }

func (b *base) QuoteError() (float64, error) {
	observed, err := quote.Value(b.quote)
	if err != nil {
		return 0, fmt.Errorf("%s helper: %w", b.kind, err)
	}
	implied, err := b.implied()
	if err != nil {
		return 0, err
	}
	return observed - implied, nil
}

// link points the helper's curve handle at c. Relinking never rebuilds
// anything since all internal instruments read through the same handle.
func (b *base) link(c curve.Curve) {
	b.termStructure.Link(c)
}

func (b *base) curve() (curve.Curve, error) {
	c, err := b.termStructure.Curve()
	if err != nil {
		return nil, &CurveNotSetError{Kind: b.kind, Curve: "term structure"}
	}
	return c, nil
}

// curveFrom resolves an exogenous handle, reporting which curve is missing.
func (b *base) curveFrom(h *curve.Handle, name string) (curve.Curve, error) {
	c, err := h.Curve()
	if err != nil {
		return nil, &CurveNotSetError{Kind: b.kind, Curve: name}
	}
	return c, nil
}

func (b *base) setDates(earliest, maturity, latestRelevant, pillar time.Time) {
	b.earliest = earliest
	b.maturity = maturity
	b.latestRelevant = latestRelevant
	b.pillar = pillar
	b.latest = utils.MaxDate(maturity, latestRelevant, pillar)
}

// relative tracks the evaluation date a helper's dates were derived from.
type relative struct {
	settings       *settings.Settings
	evaluationDate time.Time
}

func newRelative(s *settings.Settings) relative {
	s = settings.Or(s)
	return relative{settings: s, evaluationDate: s.EvaluationDate()}
}

// refresh reruns init when the evaluation date moved since the last run.
func (r *relative) refresh(init func() error) error {
	today := r.settings.EvaluationDate()
	if today.Equal(r.evaluationDate) {
		return nil
	}
	prev := r.evaluationDate
	r.evaluationDate = today
	if err := init(); err != nil {
		r.evaluationDate = prev
		return err
	}
	return nil
}

// EvaluationDate is the date the helper's schedule was derived from.
func (r *relative) EvaluationDate() time.Time { return r.evaluationDate }

// optionalValue reads an optional quote; nil reads as zero.
func optionalValue(q quote.Quote) (float64, error) {
	if q == nil {
		return 0, nil
	}
	return q.Value()
}
