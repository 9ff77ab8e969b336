package curve

import (
	"math"
	"sort"
	"time"
)

// findBracketOrBoundary returns the index pair of adjacent nodes around
// target. Outside the node range it returns the nearest boundary pair.
func findBracketOrBoundary(dates []time.Time, target time.Time) (int, int) {
	idx := sort.Search(len(dates), func(i int) bool {
		return !dates[i].Before(target)
	})
	switch {
	case idx <= 0:
		return 0, 1
	case idx >= len(dates):
		return len(dates) - 2, len(dates) - 1
	}
	return idx - 1, idx
}

// logLinear interpolates discount factors linearly in log space on the time
// axis, extrapolating the boundary segment's forward.
func logLinear(times, dfs []float64, dates []time.Time, target time.Time, tTarget float64) float64 {
	switch len(dfs) {
	case 0:
		return 1
	case 1:
		return dfs[0]
	}
	i, j := findBracketOrBoundary(dates, target)
	t1, t2 := times[i], times[j]
	if t2 == t1 {
		return dfs[i]
	}
	forward := math.Log(dfs[i]/dfs[j]) / (t2 - t1)
	return dfs[i] * math.Exp(-forward*(tTarget-t1))
}
