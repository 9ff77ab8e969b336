package ratehelpers

import "time"

// PillarChoice selects the date at which a helper pins the curve. The zero
// value is LastRelevantDate.
type PillarChoice int

const (
	// PillarLastRelevantDate is the latest date the implied quote reads.
	PillarLastRelevantDate PillarChoice = iota
	// PillarMaturityDate is the instrument maturity.
	PillarMaturityDate
	// PillarCustomDate is a caller-supplied date within the instrument's range.
	PillarCustomDate
)

func (p PillarChoice) String() string {
	switch p {
	case PillarLastRelevantDate:
		return "last_relevant"
	case PillarMaturityDate:
		return "maturity"
	case PillarCustomDate:
		return "custom"
	}
	return "unknown"
}

// PillarDates are the instrument dates a pillar is chosen from.
type PillarDates struct {
	Earliest       time.Time
	Maturity       time.Time
	LatestRelevant time.Time
}

// ResolvePillar applies choice. A custom date must lie within
// [Earliest, LatestRelevant].
func ResolvePillar(kind Kind, choice PillarChoice, custom time.Time, d PillarDates) (time.Time, error) {
	switch choice {
	case PillarMaturityDate:
		return d.Maturity, nil
	case PillarLastRelevantDate:
		return d.LatestRelevant, nil
	case PillarCustomDate:
		bad := func(reason string) error {
			return &InvalidPillarError{Kind: kind, Pillar: custom, Earliest: d.Earliest, Latest: d.LatestRelevant, Reason: reason}
		}
		switch {
		case custom.IsZero():
			return time.Time{}, bad("custom pillar date not given")
		case custom.Before(d.Earliest):
			return time.Time{}, bad("before earliest date")
		case custom.After(d.LatestRelevant):
			return time.Time{}, bad("after latest relevant date")
		}
		return custom, nil
	}
	return time.Time{}, &InvalidPillarError{Kind: kind, Pillar: custom, Earliest: d.Earliest, Latest: d.LatestRelevant,
		Reason: "unknown pillar choice " + choice.String()}
}
