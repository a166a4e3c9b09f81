// Package dcf implements the discounted-cash-flow engine: CAPM/WACC build-up,
// explicit-period discounting, dual terminal values, per-share bridge and a
// WACC x terminal-growth sensitivity grid, repeated per projection scenario.
package dcf

import (
	"math"

	"github.com/rs/zerolog"

	"acquisition_valuation/pkg/core/calc"
	"acquisition_valuation/pkg/core/projection"
	"acquisition_valuation/pkg/models"
)

// MarketParams are the capital-market inputs shared by every DCF run.
type MarketParams struct {
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	EquityRiskPremium float64 `json:"equity_risk_premium" yaml:"equity_risk_premium"`
	PretaxCostOfDebt  float64 `json:"pretax_cost_of_debt" yaml:"pretax_cost_of_debt"`
	TerminalGrowth    float64 `json:"terminal_growth" yaml:"terminal_growth"`
	ExitMultiple      float64 `json:"exit_multiple" yaml:"exit_multiple"`
}

// Input bundles one company's projection with its capital structure.
type Input struct {
	Model          *projection.ProjectionModel
	Financials     *models.CompanyFinancials
	Classification models.Classification
	Params         MarketParams
}

// TerminalValue reports both terminal-value methods explicitly. Callers select
// which to use; nothing is silently blended.
type TerminalValue struct {
	GordonValue       float64 `json:"gordon_value,omitempty"`
	GordonApplicable  bool    `json:"gordon_applicable"`
	GordonReason      string  `json:"gordon_reason,omitempty"`
	ExitMultiple      float64 `json:"exit_multiple"`
	ExitMultipleValue float64 `json:"exit_multiple_value"`
	Selected          string  `json:"selected"` // gordon | exit_multiple
}

// GridCell is one sensitivity-grid entry. Cells where growth meets or exceeds
// WACC are marked invalid rather than carrying an infinite value.
type GridCell struct {
	WACC        float64 `json:"wacc"`
	Growth      float64 `json:"growth"`
	EquityValue float64 `json:"equity_value,omitempty"`
	Valid       bool    `json:"valid"`
}

// ScenarioResult is a full DCF for one projection case.
type ScenarioResult struct {
	Scenario        projection.Scenario `json:"scenario"`
	CostOfEquity    float64             `json:"cost_of_equity"`
	CostOfDebt      float64             `json:"cost_of_debt"`
	WACC            float64             `json:"wacc"`
	TerminalGrowth  float64             `json:"terminal_growth"`
	PVExplicit      float64             `json:"pv_explicit_fcf"`
	PVTerminal      float64             `json:"pv_terminal"`
	Terminal        TerminalValue       `json:"terminal_value"`
	EnterpriseValue float64             `json:"enterprise_value"`
	EquityValue     float64             `json:"equity_value"`
	PerShare        float64             `json:"equity_value_per_share"`
	SensitivityGrid []GridCell          `json:"sensitivity_grid"`
}

// Result holds the scenario analysis; Base is the headline case.
type Result struct {
	Base      ScenarioResult   `json:"base"`
	Scenarios []ScenarioResult `json:"scenario_analysis"`
}

// Engine runs DCF valuations.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a DCF engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "dcf_engine").Logger()}
}

// Value runs the full scenario analysis. Data-contract violations return a
// fatal error; calculation edge cases degrade into an Applicable=false
// envelope. Identical inputs yield byte-identical output.
func (e *Engine) Value(input Input) (models.ValuationResult, error) {
	if err := input.Financials.Validate(); err != nil {
		return models.ValuationResult{}, err
	}

	res := Result{Scenarios: make([]ScenarioResult, 0, len(projection.Scenarios))}
	for _, s := range projection.Scenarios {
		sr, err := e.valueScenario(input, s)
		if err != nil {
			e.log.Warn().Str("symbol", input.Model.Symbol).Str("scenario", string(s)).Err(err).Msg("scenario not computable")
			return models.NotApplicable(models.MethodDCF, err.Error()), nil
		}
		res.Scenarios = append(res.Scenarios, sr)
		if s == projection.ScenarioBase {
			res.Base = sr
		}
	}

	return models.ValuationResult{
		Method:          models.MethodDCF,
		Applicable:      true,
		PerShare:        res.Base.PerShare,
		EnterpriseValue: res.Base.EnterpriseValue,
		Detail:          res,
	}, nil
}

func (e *Engine) valueScenario(input Input, scenario projection.Scenario) (ScenarioResult, error) {
	periods := input.Model.Case(scenario)
	if len(periods) == 0 {
		return ScenarioResult{}, &models.CalculationError{Op: "dcf", Reason: "empty projection case " + string(scenario)}
	}

	fin := input.Financials
	latest := fin.Latest()

	costOfEquity := calc.CostOfEquityCAPM(input.Params.RiskFreeRate, fin.Beta, input.Params.EquityRiskPremium) +
		input.Classification.RiskPremiumAdjustment()
	costOfDebt := calc.AfterTaxCostOfDebt(input.Params.PretaxCostOfDebt, fin.TaxRate)
	wacc, err := calc.WACC(costOfEquity, costOfDebt, fin.MarketCap(), latest.TotalDebt)
	if err != nil {
		return ScenarioResult{}, err
	}

	growth := math.Min(input.Params.TerminalGrowth, input.Classification.TerminalGrowthCeiling())

	flows := make([]float64, len(periods))
	for i, p := range periods {
		flows[i] = p.FreeCashFlow
	}
	terminalPeriod := periods[len(periods)-1]

	sr := ScenarioResult{
		Scenario:       scenario,
		CostOfEquity:   costOfEquity,
		CostOfDebt:     costOfDebt,
		WACC:           wacc,
		TerminalGrowth: growth,
		PVExplicit:     calc.PresentValueOfCashFlows(flows, wacc),
	}

	tv := TerminalValue{
		ExitMultiple:      input.Params.ExitMultiple,
		ExitMultipleValue: calc.ExitMultipleTerminalValue(terminalPeriod.EBITDA, input.Params.ExitMultiple),
	}
	gordon, gerr := calc.GordonTerminalValue(terminalPeriod.FreeCashFlow, wacc, growth)
	if gerr != nil {
		tv.GordonReason = gerr.Error()
		tv.Selected = "exit_multiple"
	} else {
		tv.GordonValue = gordon
		tv.GordonApplicable = true
		tv.Selected = "gordon"
	}
	sr.Terminal = tv

	terminal := tv.ExitMultipleValue
	if tv.GordonApplicable {
		terminal = tv.GordonValue
	}
	sr.PVTerminal = calc.PresentValue(terminal, wacc, len(periods))
	sr.EnterpriseValue = sr.PVExplicit + sr.PVTerminal
	sr.EquityValue = sr.EnterpriseValue - fin.NetDebt()
	sr.PerShare = sr.EquityValue / fin.SharesOutstanding
	sr.SensitivityGrid = buildSensitivityGrid(flows, terminalPeriod, wacc, growth, fin.NetDebt())

	return sr, nil
}
