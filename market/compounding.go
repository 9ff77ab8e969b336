package market

import "math"

// Compounding selects how a rate turns into a growth factor.
type Compounding int

const (
	Simple Compounding = iota
	Continuous
	CompoundedAnnual
	CompoundedSemiannual
	CompoundedQuarterly
)

func (c Compounding) frequency() float64 {
	switch c {
	case CompoundedAnnual:
		return 1
	case CompoundedSemiannual:
		return 2
	case CompoundedQuarterly:
		return 4
	}
	return 0
}

// CompoundFactor is the growth of one unit over t years at rate r.
func CompoundFactor(r, t float64, c Compounding) float64 {
	switch c {
	case Simple:
		return 1 + r*t
	case Continuous:
		return math.Exp(r * t)
	default:
		f := c.frequency()
		return math.Pow(1+r/f, f*t)
	}
}

// ImpliedRate inverts CompoundFactor. t must be positive.
func ImpliedRate(compound, t float64, c Compounding) float64 {
	switch c {
	case Simple:
		return (compound - 1) / t
	case Continuous:
		return math.Log(compound) / t
	default:
		f := c.frequency()
		return (math.Pow(compound, 1/(f*t)) - 1) * f
	}
}
