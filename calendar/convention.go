package calendar

import "fmt"

// BusinessDayConvention decides how a date falling on a holiday is rolled.
type BusinessDayConvention int

const (
	Following BusinessDayConvention = iota
	ModifiedFollowing
	Preceding
	ModifiedPreceding
	Unadjusted
)

func (c BusinessDayConvention) String() string {
	switch c {
	case Following:
		return "F"
	case ModifiedFollowing:
		return "MF"
	case Preceding:
		return "P"
	case ModifiedPreceding:
		return "MP"
	case Unadjusted:
		return "U"
	default:
		return fmt.Sprintf("BusinessDayConvention(%d)", int(c))
	}
}

// ParseConvention accepts the short codes produced by String as well as the
// spelled-out names used in instrument files.
func ParseConvention(s string) (BusinessDayConvention, error) {
	switch s {
	case "F", "FOLLOWING", "Following":
		return Following, nil
	case "MF", "MODIFIED_FOLLOWING", "ModifiedFollowing":
		return ModifiedFollowing, nil
	case "P", "PRECEDING", "Preceding":
		return Preceding, nil
	case "MP", "MODIFIED_PRECEDING", "ModifiedPreceding":
		return ModifiedPreceding, nil
	case "U", "UNADJUSTED", "Unadjusted":
		return Unadjusted, nil
	}
	return 0, fmt.Errorf("calendar: unknown business day convention %q", s)
}
