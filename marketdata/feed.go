// Package marketdata supplies quotes and index fixings to the curve
// builders, from memory or from a SQL database.
package marketdata

import (
	"sync"
	"time"

	"github.com/meenmo/fwdcurve/utils"
)

// FixingFeed is a map-backed fixing history keyed by YYYY-MM-DD. It
// satisfies index.FixingSource.
type FixingFeed struct {
	mu    sync.RWMutex
	rates map[string]float64
}

// NewFixingFeed copies rates, given as decimals keyed by YYYY-MM-DD.
func NewFixingFeed(rates map[string]float64) *FixingFeed {
	f := &FixingFeed{rates: make(map[string]float64, len(rates))}
	for k, v := range rates {
		f.rates[k] = v
	}
	return f
}

// Add records the fixing for date, replacing any previous value.
func (f *FixingFeed) Add(date time.Time, rate float64) {
	f.mu.Lock()
	f.rates[date.Format(utils.DateLayout)] = rate
	f.mu.Unlock()
}

func (f *FixingFeed) RateOn(date time.Time) (float64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	val, ok := f.rates[date.Format(utils.DateLayout)]
	return val, ok
}

// Len is the number of recorded fixings.
func (f *FixingFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rates)
}
