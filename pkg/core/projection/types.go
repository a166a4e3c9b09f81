package projection

import "acquisition_valuation/pkg/models"

// Scenario labels one projection case.
type Scenario string

const (
	ScenarioBear Scenario = "bear"
	ScenarioBase Scenario = "base"
	ScenarioBull Scenario = "bull"
)

// Scenarios lists the cases in reporting order.
var Scenarios = []Scenario{ScenarioBear, ScenarioBase, ScenarioBull}

// Period is one projected fiscal year with articulated statement lines.
// The balance sheet identity and the free-cash-flow identity hold for every
// period by construction.
type Period struct {
	FiscalYear               int     `json:"fiscal_year"`
	Revenue                  float64 `json:"revenue"`
	EBITDA                   float64 `json:"ebitda"`
	DepreciationAmortization float64 `json:"depreciation_amortization"`
	NetIncome                float64 `json:"net_income"`
	Capex                    float64 `json:"capex"`
	ChangeNWC                float64 `json:"change_nwc"`
	FreeCashFlow             float64 `json:"free_cash_flow"`
	TotalDebt                float64 `json:"total_debt"`
	Cash                     float64 `json:"cash"`
	Assets                   float64 `json:"assets"`
	Liabilities              float64 `json:"liabilities"`
	Equity                   float64 `json:"equity"`
}

// Drivers are the per-scenario growth and margin assumptions derived from
// history and the lifecycle classification.
type Drivers struct {
	RevenueGrowth    float64 `json:"revenue_growth"`
	EBITDAMargin     float64 `json:"ebitda_margin"`
	DAPercentRevenue float64 `json:"da_percent_revenue"`
	CapexPercent     float64 `json:"capex_percent_revenue"`
	NWCPercentDelta  float64 `json:"nwc_percent_of_revenue_delta"`
	EffectiveTaxRate float64 `json:"effective_tax_rate"`
	InterestRate     float64 `json:"implied_interest_rate"`
}

// ProjectionModel carries the multi-scenario projection for one company.
type ProjectionModel struct {
	Symbol         string                `json:"symbol"`
	Classification models.Classification `json:"classification"`
	Drivers        map[Scenario]Drivers  `json:"drivers"`
	Cases          map[Scenario][]Period `json:"cases"`
}

// Case returns the period slice for a scenario.
func (m *ProjectionModel) Case(s Scenario) []Period {
	return m.Cases[s]
}

// Base is shorthand for the base case.
func (m *ProjectionModel) Base() []Period {
	return m.Cases[ScenarioBase]
}
