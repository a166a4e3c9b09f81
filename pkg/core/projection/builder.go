// Package projection turns a normalized financial dataset and a lifecycle
// classification into a multi-period, multi-scenario three-statement
// projection. Statements are articulated so that the balance sheet identity
// and the free-cash-flow identity hold for every projected period.
package projection

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"acquisition_valuation/pkg/models"
)

// DefaultHorizonYears is the explicit projection horizon.
const DefaultHorizonYears = 5

// BalanceTolerance is the relative tolerance for the articulation identities.
const BalanceTolerance = 1e-6

// Builder articulates projections from normalized history.
type Builder struct {
	years int
	log   zerolog.Logger
}

// NewBuilder creates a builder with the given horizon. A non-positive horizon
// falls back to the default.
func NewBuilder(years int, log zerolog.Logger) *Builder {
	if years <= 0 {
		years = DefaultHorizonYears
	}
	return &Builder{
		years: years,
		log:   log.With().Str("component", "projection_builder").Logger(),
	}
}

// Build produces the Bear/Base/Bull projection for one company. A violated
// input contract (shares outstanding, price, empty history) is fatal and
// propagates as a DataInsufficiencyError.
func (b *Builder) Build(fin *models.CompanyFinancials, class models.Classification) (*ProjectionModel, error) {
	if err := fin.Validate(); err != nil {
		return nil, err
	}

	base := deriveBaseDrivers(fin, class)
	drivers := scenarioDrivers(base, class)

	model := &ProjectionModel{
		Symbol:         fin.Symbol,
		Classification: class,
		Drivers:        drivers,
		Cases:          make(map[Scenario][]Period, len(Scenarios)),
	}
	for _, s := range Scenarios {
		model.Cases[s] = b.articulate(fin, drivers[s])
	}

	if err := model.Validate(BalanceTolerance); err != nil {
		return nil, fmt.Errorf("projection articulation for %s: %w", fin.Symbol, err)
	}

	b.log.Debug().
		Str("symbol", fin.Symbol).
		Int("years", b.years).
		Float64("base_growth", base.RevenueGrowth).
		Float64("base_margin", base.EBITDAMargin).
		Msg("projection built")

	return model, nil
}

// articulate rolls the three statements forward year by year. The opening
// balance sheet is normalized from the latest history: operating assets are
// seeded at one revenue turn, equity is the residual of assets over debt.
func (b *Builder) articulate(fin *models.CompanyFinancials, d Drivers) []Period {
	latest := fin.Latest()

	prevRev := latest.Revenue
	cash := latest.Cash
	debt := latest.TotalDebt
	opAssets := latest.Revenue
	equity := cash + opAssets - debt

	periods := make([]Period, 0, b.years)
	for i := 1; i <= b.years; i++ {
		rev := prevRev * (1 + d.RevenueGrowth)
		ebitda := rev * d.EBITDAMargin
		da := rev * d.DAPercentRevenue
		interest := debt * d.InterestRate

		ebt := ebitda - da - interest
		tax := 0.0
		if ebt > 0 {
			tax = ebt * d.EffectiveTaxRate
		}
		ni := ebt - tax

		capex := rev * d.CapexPercent
		deltaNWC := (rev - prevRev) * d.NWCPercentDelta
		fcf := ni + da - deltaNWC - capex

		cash += fcf
		opAssets += capex - da + deltaNWC
		equity += ni

		periods = append(periods, Period{
			FiscalYear:               latest.FiscalYear + i,
			Revenue:                  rev,
			EBITDA:                   ebitda,
			DepreciationAmortization: da,
			NetIncome:                ni,
			Capex:                    capex,
			ChangeNWC:                deltaNWC,
			FreeCashFlow:             fcf,
			TotalDebt:                debt,
			Cash:                     cash,
			Assets:                   cash + opAssets,
			Liabilities:              debt,
			Equity:                   equity,
		})
		prevRev = rev
	}
	return periods
}

// Validate checks both articulation identities for every period of every
// scenario within the given relative tolerance.
func (m *ProjectionModel) Validate(tolerance float64) error {
	for _, s := range Scenarios {
		for _, p := range m.Cases[s] {
			if !withinTolerance(p.Assets, p.Liabilities+p.Equity, tolerance) {
				return &models.CalculationError{
					Op:     "balance_check",
					Reason: fmt.Sprintf("%s FY%d: assets %.4f != liabilities+equity %.4f", s, p.FiscalYear, p.Assets, p.Liabilities+p.Equity),
				}
			}
			derived := p.NetIncome + p.DepreciationAmortization - p.ChangeNWC - p.Capex
			if !withinTolerance(derived, p.FreeCashFlow, tolerance) {
				return &models.CalculationError{
					Op:     "fcf_check",
					Reason: fmt.Sprintf("%s FY%d: derived FCF %.4f != reported %.4f", s, p.FiscalYear, derived, p.FreeCashFlow),
				}
			}
		}
	}
	return nil
}

func withinTolerance(a, b, tolerance float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1 {
		scale = 1
	}
	return diff <= tolerance*scale
}
