// Package quote holds observable market values that helpers read lazily.
package quote

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyQuote   = errors.New("empty quote")
	ErrInvalidQuote = errors.New("invalid quote")
)

// Quote is a market value that may change between reads.
type Quote interface {
	Value() (float64, error)
	IsValid() bool
}

// Literal is a fixed quote value.
type Literal float64

func (l Literal) Value() (float64, error) {
	if !l.IsValid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuote, float64(l))
	}
	return float64(l), nil
}

func (l Literal) IsValid() bool {
	f := float64(l)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Simple is a settable quote shared between market data feeds and helpers.
type Simple struct {
	mu    sync.RWMutex
	value float64
	set   bool
}

// NewSimple returns a quote holding v.
func NewSimple(v float64) *Simple {
	return &Simple{value: v, set: true}
}

// Set stores v and returns the change from the previous value.
func (s *Simple) Set(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	diff := v - s.value
	s.value = v
	s.set = true
	return diff
}

// Reset empties the quote.
func (s *Simple) Reset() {
	s.mu.Lock()
	s.set = false
	s.mu.Unlock()
}

func (s *Simple) Value() (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return 0, ErrEmptyQuote
	}
	if !Literal(s.value).IsValid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuote, s.value)
	}
	return s.value, nil
}

func (s *Simple) IsValid() bool {
	_, err := s.Value()
	return err == nil
}

// Value reads q, treating a nil quote as empty.
func Value(q Quote) (float64, error) {
	if q == nil {
		return 0, ErrEmptyQuote
	}
	return q.Value()
}

// Valid reports whether q is non-nil and readable.
func Valid(q Quote) bool {
	return q != nil && q.IsValid()
}

var (
	percent    = decimal.New(1, -2)
	basisPoint = decimal.New(1, -4)
)

// Unit is the scale a textual quote is expressed in.
type Unit string

const (
	UnitDecimal    Unit = "decimal"
	UnitPercent    Unit = "percent"
	UnitBasisPoint Unit = "bp"
	UnitPrice      Unit = "price"
)

// Parse reads a decimal string exactly and scales it to a plain number.
// Prices are returned unscaled.
func Parse(s string, unit Unit) (Literal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidQuote, s, err)
	}
	switch unit {
	case UnitDecimal, UnitPrice, "":
	case UnitPercent:
		d = d.Mul(percent)
	case UnitBasisPoint:
		d = d.Mul(basisPoint)
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidQuote, unit)
	}
	return Literal(d.InexactFloat64()), nil
}
