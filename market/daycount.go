package market

import (
	"fmt"
	"time"

	"github.com/meenmo/fwdcurve/utils"
)

// DayCount enum.
type DayCount string

const (
	Act360   DayCount = "ACT/360"
	Act365   DayCount = "ACT/365"
	Act365F  DayCount = "ACT/365F"
	ActAct   DayCount = "ACT/ACT"
	Dc30360  DayCount = "30/360"
	Dc30E360 DayCount = "30E/360"
)

// YearFraction measures [start, end] under the convention.
func (dc DayCount) YearFraction(start, end time.Time) float64 {
	return utils.YearFraction(start, end, string(dc))
}

// ParseDayCount validates a day count name.
func ParseDayCount(s string) (DayCount, error) {
	switch dc := DayCount(s); dc {
	case Act360, Act365, Act365F, ActAct, Dc30360, Dc30E360:
		return dc, nil
	}
	return "", fmt.Errorf("market: unknown day count %q", s)
}
