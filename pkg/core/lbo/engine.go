// Package lbo implements the leveraged-buyout engine: entry structure
// validation, a two-tranche debt schedule with mandatory amortization and a
// seniority-ordered cash sweep, and sponsor returns (IRR, MOIC) across
// candidate hold periods.
package lbo

import (
	"math"

	"github.com/rs/zerolog"

	"acquisition_valuation/pkg/core/projection"
	"acquisition_valuation/pkg/models"
)

// DealAssumptions describe the financing structure. The three percentages
// must sum to 1.0; anything else is rejected before computation.
type DealAssumptions struct {
	SeniorDebtPct float64 `json:"senior_debt_pct" yaml:"senior_debt_pct"`
	SubDebtPct    float64 `json:"sub_debt_pct" yaml:"sub_debt_pct"`
	EquityPct     float64 `json:"equity_pct" yaml:"equity_pct"`

	SeniorRate     float64 `json:"senior_rate" yaml:"senior_rate"`
	SubRate        float64 `json:"sub_rate" yaml:"sub_rate"`
	SeniorAmortPct float64 `json:"senior_amort_pct" yaml:"senior_amort_pct"` // mandatory amortization, % of initial senior balance per year

	EntryMultiple float64 `json:"entry_multiple" yaml:"entry_multiple"`
	ExitMultiple  float64 `json:"exit_multiple" yaml:"exit_multiple"`

	// PurchasePrice overrides the entry-multiple default when positive,
	// e.g. a blended price passed down by the coordinator.
	PurchasePrice float64 `json:"purchase_price,omitempty" yaml:"purchase_price"`

	HoldYears []int   `json:"hold_years" yaml:"hold_years"`
	HurdleIRR float64 `json:"hurdle_irr" yaml:"hurdle_irr"`

	// MaxDeficitYears is how many consecutive years of negative cash
	// available for debt service are tolerated before the deal is flagged
	// high-risk.
	MaxDeficitYears int `json:"max_deficit_years" yaml:"max_deficit_years"`
}

const pctTolerance = 1e-9

// Validate rejects structures whose tranche percentages do not sum to 1.0.
func (d DealAssumptions) Validate() error {
	sum := d.SeniorDebtPct + d.SubDebtPct + d.EquityPct
	if math.Abs(sum-1.0) > pctTolerance {
		return &models.CalculationError{Op: "lbo_structure", Reason: "leverage percentages must sum to 1.0"}
	}
	if d.EntryMultiple <= 0 || d.ExitMultiple <= 0 {
		return &models.CalculationError{Op: "lbo_structure", Reason: "entry and exit multiples must be positive"}
	}
	return nil
}

// Recommendation classifies the deal against the hurdle rate. Pure
// classification, never silently upgraded.
type Recommendation string

const (
	RecommendationAttractive Recommendation = "attractive"
	RecommendationImprove    Recommendation = "requires_improvement"
)

// ExitResult is the sponsor outcome for one candidate exit year.
type ExitResult struct {
	Year            int     `json:"year"`
	ExitEBITDA      float64 `json:"exit_ebitda"`
	ExitEV          float64 `json:"exit_enterprise_value"`
	RemainingDebt   float64 `json:"remaining_net_debt"`
	ExitEquityValue float64 `json:"exit_equity_value"`
	MOIC            float64 `json:"moic"`
	IRR             float64 `json:"irr"`
}

// Result is the full LBO output.
type Result struct {
	PurchasePrice  float64        `json:"purchase_price"`
	InitialEquity  float64        `json:"initial_equity_invested"`
	InitialDebt    float64        `json:"initial_debt"`
	Schedule       []ScheduleYear `json:"debt_schedule"`
	Exits          []ExitResult   `json:"exits"`
	Headline       ExitResult     `json:"headline"`
	PaybackYears   int            `json:"payback_period,omitempty"`
	HighRisk       bool           `json:"high_risk"`
	Recommendation Recommendation `json:"recommendation"`

	// Ability-to-pay: the entry value at which the headline exit still
	// clears the hurdle IRR, bridged to an offer per share.
	MaxEntryEV           float64 `json:"max_entry_enterprise_value"`
	AbilityToPayPerShare float64 `json:"ability_to_pay_per_share"`
}

// Engine runs LBO analyses.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an LBO engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "lbo_engine").Logger()}
}

// Value computes the schedule and sponsor returns against the base-case
// projection. Structural violations are fatal for the method and surface as
// an Applicable=false envelope; a strained schedule flags high-risk instead
// of failing.
func (e *Engine) Value(model *projection.ProjectionModel, fin *models.CompanyFinancials, deal DealAssumptions) (models.ValuationResult, error) {
	if err := fin.Validate(); err != nil {
		return models.ValuationResult{}, err
	}
	if err := deal.Validate(); err != nil {
		return models.NotApplicable(models.MethodLBO, err.Error()), nil
	}
	base := model.Base()
	if len(base) == 0 {
		return models.NotApplicable(models.MethodLBO, "empty base-case projection"), nil
	}

	entryEBITDA := fin.Latest().EBITDA
	price := deal.PurchasePrice
	if price <= 0 {
		price = entryEBITDA * deal.EntryMultiple
	}
	if price <= 0 {
		return models.NotApplicable(models.MethodLBO, "purchase price not derivable from entry EBITDA"), nil
	}

	initialEquity := price * deal.EquityPct
	if initialEquity <= 0 {
		return models.NotApplicable(models.MethodLBO, "equity contribution must be positive"), nil
	}

	taxRate := fin.TaxRate
	if taxRate <= 0 {
		taxRate = model.Drivers[projection.ScenarioBase].EffectiveTaxRate
	}
	schedule, maxDeficitStreak := buildSchedule(base, price, taxRate, deal)

	res := Result{
		PurchasePrice: price,
		InitialEquity: initialEquity,
		InitialDebt:   price * (deal.SeniorDebtPct + deal.SubDebtPct),
		Schedule:      schedule,
		HighRisk:      maxDeficitStreak > deal.MaxDeficitYears,
	}

	holds := deal.HoldYears
	if len(holds) == 0 {
		holds = []int{3, 5, 7}
	}
	for _, year := range holds {
		if year < 1 || year > len(schedule) {
			continue
		}
		row := schedule[year-1]
		exitEV := row.EBITDA * deal.ExitMultiple
		exitEquity := exitEV - row.TotalEnd
		moic := exitEquity / initialEquity
		irr := -1.0
		if moic > 0 {
			irr = math.Pow(moic, 1/float64(year)) - 1
		}
		res.Exits = append(res.Exits, ExitResult{
			Year:            year,
			ExitEBITDA:      row.EBITDA,
			ExitEV:          exitEV,
			RemainingDebt:   row.TotalEnd,
			ExitEquityValue: exitEquity,
			MOIC:            moic,
			IRR:             irr,
		})
	}
	if len(res.Exits) == 0 {
		return models.NotApplicable(models.MethodLBO, "no candidate exit year inside the projection horizon"), nil
	}

	res.Headline = headlineExit(res.Exits)
	for _, exit := range res.Exits {
		if exit.MOIC >= 1.0 {
			res.PaybackYears = exit.Year
			break
		}
	}

	res.Recommendation = RecommendationImprove
	if res.Headline.IRR >= deal.HurdleIRR {
		res.Recommendation = RecommendationAttractive
	}

	// Backward induction from the headline exit: the equity check that still
	// earns the hurdle, plus the debt raised, is the most a sponsor can pay.
	if res.Headline.ExitEquityValue > 0 {
		requiredEquity := res.Headline.ExitEquityValue / math.Pow(1+deal.HurdleIRR, float64(res.Headline.Year))
		res.MaxEntryEV = requiredEquity + res.InitialDebt
		res.AbilityToPayPerShare = (res.MaxEntryEV - fin.NetDebt()) / fin.SharesOutstanding
		if res.AbilityToPayPerShare < 0 {
			res.AbilityToPayPerShare = 0
		}
	}

	e.log.Debug().
		Str("symbol", model.Symbol).
		Float64("price", price).
		Float64("irr", res.Headline.IRR).
		Float64("moic", res.Headline.MOIC).
		Bool("high_risk", res.HighRisk).
		Msg("lbo computed")

	return models.ValuationResult{
		Method:          models.MethodLBO,
		Applicable:      true,
		PerShare:        res.AbilityToPayPerShare,
		EnterpriseValue: res.MaxEntryEV,
		Detail:          res,
	}, nil
}

// headlineExit picks the middle configured hold as the headline outcome.
func headlineExit(exits []ExitResult) ExitResult {
	return exits[len(exits)/2]
}
