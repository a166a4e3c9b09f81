package calc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquisition_valuation/pkg/models"
)

func TestCostOfEquityCAPM(t *testing.T) {
	// r_e = 0.04 + 1.5 * 0.05 = 0.115
	assert.InDelta(t, 0.115, CostOfEquityCAPM(0.04, 1.5, 0.05), 1e-12)
}

func TestWACC(t *testing.T) {
	// Equal weights: 0.5*0.10 + 0.5*0.04 = 0.07
	wacc, err := WACC(0.10, 0.04, 500, 500)
	require.NoError(t, err)
	assert.InDelta(t, 0.07, wacc, 1e-12)

	// All-equity structure collapses to the cost of equity.
	wacc, err = WACC(0.10, 0.04, 1000, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, wacc, 1e-12)

	_, err = WACC(0.10, 0.04, 0, 0)
	var calcErr *models.CalculationError
	require.True(t, errors.As(err, &calcErr))
}

func TestGordonTerminalValue(t *testing.T) {
	// Terminal FCF 150.4, r 10%, g 3% -> 150.4*1.03/0.07
	tv, err := GordonTerminalValue(150.4, 0.10, 0.03)
	require.NoError(t, err)
	assert.InDelta(t, 150.4*1.03/0.07, tv, 1e-9)

	_, err = GordonTerminalValue(100, 0.05, 0.05)
	var calcErr *models.CalculationError
	require.True(t, errors.As(err, &calcErr), "g == r has no defined value")

	_, err = GordonTerminalValue(100, 0.05, 0.08)
	require.Error(t, err, "g > r has no defined value")
}

func TestPresentValueOfCashFlows(t *testing.T) {
	flows := []float64{100, 110, 121, 133, 146}
	pv := PresentValueOfCashFlows(flows, 0.10)

	var expected float64
	rate := 1.0
	for _, cf := range flows {
		rate *= 1.10
		expected += cf / rate
	}
	assert.InDelta(t, expected, pv, 1e-9)

	// Deterministic: same inputs, identical output.
	assert.Equal(t, pv, PresentValueOfCashFlows(flows, 0.10))
}

func TestEnterpriseValue(t *testing.T) {
	// EV = market_cap + debt - cash
	assert.Equal(t, 4200.0, EnterpriseValue(4000, 500, 300))
}
