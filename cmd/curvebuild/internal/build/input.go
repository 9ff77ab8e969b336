// Package build turns a JSON instrument file into rate helpers and curves,
// and runs the bootstrap in dependency order.
package build

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Input is the instrument file.
//
// Conventions:
// - deposit, fra and swap quotes default to percent; futures to price;
//   bma_swap fractions and fx_swap points to decimal
// - spread, convexity and fixings are decimals
type Input struct {
	CurveDate string       `json:"curve_date"` // "2025-01-15"
	Curves    []CurveInput `json:"curves"`

	// Fixings maps index name to YYYY-MM-DD to decimal rate.
	Fixings map[string]map[string]float64 `json:"fixings,omitempty"`
}

// CurveInput is one curve and the instruments that calibrate it.
type CurveInput struct {
	Name        string       `json:"name"`
	DayCount    string       `json:"day_count,omitempty"` // defaults to ACT/365F
	Instruments []Instrument `json:"instruments"`
}

// Instrument carries the union of all helper fields; Type selects which
// apply.
type Instrument struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type"` // futures, deposit, fra, swap, bma_swap, fx_swap
	Quote string `json:"quote,omitempty"`
	Unit  string `json:"unit,omitempty"`

	Index        string `json:"index,omitempty"`
	Tenor        string `json:"tenor,omitempty"`
	FixingDays   *int   `json:"fixing_days,omitempty"`
	Calendar     string `json:"calendar,omitempty"`
	Convention   string `json:"convention,omitempty"`
	EndOfMonth   bool   `json:"end_of_month,omitempty"`
	DayCount     string `json:"day_count,omitempty"`
	Pillar       string `json:"pillar,omitempty"` // last_relevant, maturity, custom
	CustomPillar string `json:"custom_pillar,omitempty"`

	Start          string `json:"start,omitempty"`
	End            string `json:"end,omitempty"`
	FuturesType    string `json:"futures_type,omitempty"` // imm, asx, custom
	Contract       int    `json:"contract,omitempty"`     // nth quarterly contract after curve_date, instead of start
	LengthInMonths int    `json:"length_in_months,omitempty"`
	Convexity      string `json:"convexity,omitempty"`

	MonthsToStart int    `json:"months_to_start,omitempty"`
	MonthsToEnd   int    `json:"months_to_end,omitempty"`
	PeriodToStart string `json:"period_to_start,omitempty"`

	SwapIndex       string `json:"swap_index,omitempty"`
	FixedFrequency  string `json:"fixed_frequency,omitempty"`
	FixedConvention string `json:"fixed_convention,omitempty"`
	FixedDayCount   string `json:"fixed_day_count,omitempty"`
	Spread          string `json:"spread,omitempty"`
	ForwardStart    string `json:"forward_start,omitempty"`
	DiscountCurve   string `json:"discount_curve,omitempty"`
	SettlementDays  *int   `json:"settlement_days,omitempty"`

	BMAIndex      string `json:"bma_index,omitempty"`
	BMAPeriod     string `json:"bma_period,omitempty"`
	BMAConvention string `json:"bma_convention,omitempty"`
	BMADayCount   string `json:"bma_day_count,omitempty"`
	IndexCurve    string `json:"index_curve,omitempty"`

	Spot             string `json:"spot,omitempty"`
	CollateralCurve  string `json:"collateral_curve,omitempty"`
	BaseIsCollateral bool   `json:"base_is_collateral,omitempty"`
}

// ReadInput decodes an instrument file, rejecting unknown fields.
func ReadInput(r io.Reader) (Input, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("read input: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Input{}, fmt.Errorf("empty input")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var in Input
	if err := dec.Decode(&in); err != nil {
		return Input{}, fmt.Errorf("parse input: %w", err)
	}
	if len(in.Curves) == 0 {
		return Input{}, fmt.Errorf("input has no curves")
	}
	return in, nil
}
