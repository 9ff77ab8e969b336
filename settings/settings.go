// Package settings carries the evaluation date that relative instruments
// measure their dates from.
package settings

import (
	"sync"
	"time"
)

// Settings holds a mutable evaluation date. The zero value evaluates as of
// today.
type Settings struct {
	mu             sync.RWMutex
	evaluationDate time.Time
}

// New returns settings pinned to d.
func New(d time.Time) *Settings {
	s := &Settings{}
	s.SetEvaluationDate(d)
	return s
}

// EvaluationDate returns the pinned date, or today (UTC) when none is set.
func (s *Settings) EvaluationDate() time.Time {
	s.mu.RLock()
	d := s.evaluationDate
	s.mu.RUnlock()
	if d.IsZero() {
		return truncate(time.Now().UTC())
	}
	return d
}

// SetEvaluationDate pins the evaluation date. A zero d unpins it.
func (s *Settings) SetEvaluationDate(d time.Time) {
	if !d.IsZero() {
		d = truncate(d)
	}
	s.mu.Lock()
	s.evaluationDate = d
	s.mu.Unlock()
}

func truncate(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// defaultSettings is the process-wide instance used when an instrument is
// not given its own.
var defaultSettings = &Settings{}

// Default returns the process-wide settings.
func Default() *Settings {
	return defaultSettings
}

// Or returns s, falling back to Default when s is nil.
func Or(s *Settings) *Settings {
	if s == nil {
		return defaultSettings
	}
	return s
}
