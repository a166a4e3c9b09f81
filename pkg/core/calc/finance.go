// Package calc provides deterministic financial primitives shared by the
// valuation engines: cost of capital, discounting, terminal values and
// descriptive statistics.
package calc

import (
	"math"

	"acquisition_valuation/pkg/models"
)

// CostOfEquityCAPM calculates required return on equity using CAPM.
//
// FORMULA: r_e = r_f + β × ERP
func CostOfEquityCAPM(riskFreeRate, beta, equityRiskPremium float64) float64 {
	return riskFreeRate + beta*equityRiskPremium
}

// AfterTaxCostOfDebt applies the interest tax shield to a pre-tax yield.
//
// FORMULA: r_d × (1 - T)
func AfterTaxCostOfDebt(pretaxCostOfDebt, taxRate float64) float64 {
	return pretaxCostOfDebt * (1 - taxRate)
}

// WACC weights the after-tax cost of debt and the cost of equity by their
// share of total capitalization (market cap + total debt).
func WACC(costOfEquity, afterTaxCostOfDebt, marketCap, totalDebt float64) (float64, error) {
	capitalization := marketCap + totalDebt
	if capitalization <= 0 {
		return 0, &models.CalculationError{Op: "wacc", Reason: "market cap plus total debt must be positive"}
	}
	we := marketCap / capitalization
	wd := totalDebt / capitalization
	wacc := costOfEquity*we + afterTaxCostOfDebt*wd
	if wacc <= 0 {
		return 0, &models.CalculationError{Op: "wacc", Reason: "discount rate must be positive"}
	}
	return wacc, nil
}

// PresentValue calculates PV of a single cash flow received after t periods.
//
// FORMULA: PV = CF / (1 + r)^t
func PresentValue(cashFlow, discountRate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+discountRate, float64(periods))
}

// PresentValueOfCashFlows calculates PV of a series of end-of-period flows.
//
// FORMULA: PV = Σ [ CF_t / (1 + r)^t ]
func PresentValueOfCashFlows(cashFlows []float64, discountRate float64) float64 {
	var pv float64
	for t, cf := range cashFlows {
		pv += cf / math.Pow(1+discountRate, float64(t+1))
	}
	return pv
}

// GordonTerminalValue capitalizes the terminal cash flow at (r - g).
//
// FORMULA: TV = CF_terminal × (1 + g) / (r - g)
//
// Undefined when g >= r; the caller reports the method not-applicable rather
// than receiving infinity.
func GordonTerminalValue(terminalCF, discountRate, growthRate float64) (float64, error) {
	if growthRate >= discountRate {
		return 0, &models.CalculationError{Op: "gordon_terminal_value", Reason: "terminal growth must be below the discount rate"}
	}
	return terminalCF * (1 + growthRate) / (discountRate - growthRate), nil
}

// ExitMultipleTerminalValue values the terminal year as EBITDA × multiple.
func ExitMultipleTerminalValue(terminalEBITDA, exitMultiple float64) float64 {
	return terminalEBITDA * exitMultiple
}

// EnterpriseValue is market cap plus total debt less cash.
func EnterpriseValue(marketCap, totalDebt, cash float64) float64 {
	return marketCap + totalDebt - cash
}
