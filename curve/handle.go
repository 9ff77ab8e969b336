package curve

import (
	"errors"
	"sync"
)

// ErrEmptyHandle is returned when reading a handle that has no curve linked.
var ErrEmptyHandle = errors.New("empty curve handle")

// Handle is a shared, relinkable reference to a Curve. Everything holding the
// same *Handle sees a relink immediately.
type Handle struct {
	mu    sync.RWMutex
	curve Curve
}

// NewHandle returns a handle linked to c, which may be nil.
func NewHandle(c Curve) *Handle {
	return &Handle{curve: c}
}

// Link points the handle at c. A nil c empties the handle.
func (h *Handle) Link(c Curve) {
	h.mu.Lock()
	h.curve = c
	h.mu.Unlock()
}

// Empty reports whether no curve is linked.
func (h *Handle) Empty() bool {
	if h == nil {
		return true
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.curve == nil
}

// Curve returns the linked curve.
func (h *Handle) Curve() (Curve, error) {
	if h == nil {
		return nil, ErrEmptyHandle
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.curve == nil {
		return nil, ErrEmptyHandle
	}
	return h.curve, nil
}
