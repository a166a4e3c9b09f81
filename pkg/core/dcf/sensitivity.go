package dcf

import (
	"math"

	"acquisition_valuation/pkg/core/calc"
	"acquisition_valuation/pkg/core/projection"
)

// Grid geometry: two points either side of the base case in fixed steps.
const (
	gridSpan = 0.02
	gridStep = 0.01
)

// buildSensitivityGrid recomputes equity value across a WACC x terminal-growth
// matrix around the base case. The grid is a pure function of the explicit
// flows and the terminal period, so identical inputs reproduce it exactly.
// Cells where growth meets or exceeds WACC stay invalid.
func buildSensitivityGrid(flows []float64, terminal projection.Period, baseWACC, baseGrowth, netDebt float64) []GridCell {
	steps := int(math.Round(gridSpan/gridStep))*2 + 1
	cells := make([]GridCell, 0, steps*steps)

	for i := 0; i < steps; i++ {
		wacc := baseWACC - gridSpan + float64(i)*gridStep
		for j := 0; j < steps; j++ {
			growth := baseGrowth - gridSpan + float64(j)*gridStep
			cell := GridCell{WACC: wacc, Growth: growth}
			if wacc > 0 && growth < wacc {
				tv, err := calc.GordonTerminalValue(terminal.FreeCashFlow, wacc, growth)
				if err == nil {
					ev := calc.PresentValueOfCashFlows(flows, wacc) + calc.PresentValue(tv, wacc, len(flows))
					cell.EquityValue = ev - netDebt
					cell.Valid = true
				}
			}
			cells = append(cells, cell)
		}
	}
	return cells
}
