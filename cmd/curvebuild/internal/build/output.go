package build

import (
	"fmt"

	"github.com/meenmo/fwdcurve/curve"
	"github.com/meenmo/fwdcurve/quote"
	"github.com/meenmo/fwdcurve/ratehelpers"
	"github.com/meenmo/fwdcurve/utils"
)

// Output is the result of a bootstrap run.
type Output struct {
	CurveDate string        `json:"curve_date"`
	Curves    []CurveOutput `json:"curves"`
}

type CurveOutput struct {
	Name        string             `json:"name"`
	RunID       string             `json:"run_id"`
	Passes      int                `json:"passes"`
	Iterations  int                `json:"iterations"`
	Nodes       []NodeOutput       `json:"nodes"`
	Instruments []InstrumentOutput `json:"instruments"`
}

type NodeOutput struct {
	Pillar   string  `json:"pillar"`
	Kind     string  `json:"kind"`
	Discount float64 `json:"discount"`
	ZeroRate float64 `json:"zero_rate"`
}

// InstrumentOutput compares each quote with the value implied by the
// solved curve, all in decimal units. Swaps also carry the unit-notional
// value of receiving the quoted rate.
type InstrumentOutput struct {
	ID      string   `json:"id,omitempty"`
	Type    string   `json:"type"`
	Pillar  string   `json:"pillar"`
	Quote   float64  `json:"quote"`
	Implied float64  `json:"implied"`
	Error   float64  `json:"error"`
	NPV     *float64 `json:"npv,omitempty"`
}

type PillarOutput struct {
	Curve          string `json:"curve"`
	ID             string `json:"id,omitempty"`
	Type           string `json:"type"`
	Earliest       string `json:"earliest"`
	Maturity       string `json:"maturity"`
	LatestRelevant string `json:"latest_relevant"`
	Pillar         string `json:"pillar"`
	Latest         string `json:"latest"`
}

func (p *Plan) output() (*Output, error) {
	out := &Output{CurveDate: p.CurveDate.Format(utils.DateLayout)}
	for _, c := range p.curves {
		co := CurveOutput{
			Name:       c.name,
			RunID:      c.result.RunID,
			Passes:     c.result.Passes,
			Iterations: c.result.Iterations,
		}
		for _, n := range c.result.Nodes {
			co.Nodes = append(co.Nodes, NodeOutput{
				Pillar:   n.Pillar.Format(utils.DateLayout),
				Kind:     n.Kind.String(),
				Discount: n.Discount,
				ZeroRate: curve.ZeroRate(c.solved, n.Pillar),
			})
		}
		for i, h := range c.helpers {
			if err := h.SetTermStructure(c.solved); err != nil {
				return nil, err
			}
			observed, err := quote.Value(h.Quote())
			if err != nil {
				return nil, err
			}
			implied, err := h.ImpliedQuote()
			if err != nil {
				return nil, fmt.Errorf("curve %s: reprice %s: %w", c.name, instrumentLabel(i, c.instruments[i]), err)
			}
			row := InstrumentOutput{
				ID:      c.instruments[i].ID,
				Type:    h.Kind().String(),
				Pillar:  h.PillarDate().Format(utils.DateLayout),
				Quote:   observed,
				Implied: implied,
				Error:   observed - implied,
			}
			if sh, ok := h.(*ratehelpers.SwapHelper); ok {
				npv, err := swapNPV(sh, observed)
				if err != nil {
					return nil, fmt.Errorf("curve %s: value %s: %w", c.name, instrumentLabel(i, c.instruments[i]), err)
				}
				row.NPV = &npv
			}
			co.Instruments = append(co.Instruments, row)
		}
		out.Curves = append(out.Curves, co)
	}
	return out, nil
}

// swapNPV values the calibration swap at the quoted rate plus its spread,
// the fixed rate the quote stands for.
func swapNPV(h *ratehelpers.SwapHelper, observed float64) (float64, error) {
	spread, err := h.Spread()
	if err != nil {
		return 0, err
	}
	sw, err := h.Swap()
	if err != nil {
		return 0, err
	}
	return sw.NPV(observed + spread)
}
