package lbo

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquisition_valuation/pkg/core/projection"
	"acquisition_valuation/pkg/models"
)

func testDeal() DealAssumptions {
	return DealAssumptions{
		SeniorDebtPct:   0.50,
		SubDebtPct:      0.20,
		EquityPct:       0.30,
		SeniorRate:      0.07,
		SubRate:         0.11,
		SeniorAmortPct:  0.05,
		EntryMultiple:   8.0,
		ExitMultiple:    9.0,
		HoldYears:       []int{3, 5, 7},
		HurdleIRR:       0.20,
		MaxDeficitYears: 2,
	}
}

func testTarget() *models.CompanyFinancials {
	return &models.CompanyFinancials{
		Symbol:            "TGT",
		SharesOutstanding: 50,
		Price:             20,
		TaxRate:           0.25,
		Periods: []models.HistoricalPeriod{
			{FiscalYear: 2025, Revenue: 1000, EBITDA: 100, TotalDebt: 150, Cash: 50},
		},
	}
}

// growingModel builds a base case with EBITDA compounding at the given rate
// and enough cash generation to service debt.
func growingModel(years int, growth float64) *projection.ProjectionModel {
	periods := make([]projection.Period, years)
	ebitda := 100.0
	for i := range periods {
		ebitda *= 1 + growth
		periods[i] = projection.Period{
			FiscalYear:               2026 + i,
			Revenue:                  ebitda * 10,
			EBITDA:                   ebitda,
			DepreciationAmortization: ebitda * 0.2,
			Capex:                    ebitda * 0.25,
			ChangeNWC:                ebitda * 0.02,
		}
	}
	return &projection.ProjectionModel{
		Symbol: "TGT",
		Cases:  map[projection.Scenario][]projection.Period{projection.ScenarioBase: periods},
	}
}

func TestDealAssumptionsValidate(t *testing.T) {
	deal := testDeal()
	require.NoError(t, deal.Validate())

	deal.EquityPct = 0.25
	err := deal.Validate()
	var calcErr *models.CalculationError
	require.ErrorAs(t, err, &calcErr)

	deal = testDeal()
	deal.EntryMultiple = 0
	require.Error(t, deal.Validate())
}

func TestValueBaseCase(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	res, err := engine.Value(growingModel(7, 0.08), testTarget(), testDeal())
	require.NoError(t, err)
	require.True(t, res.Applicable)
	require.Equal(t, models.MethodLBO, res.Method)

	detail := res.Detail.(Result)
	assert.InDelta(t, 800.0, detail.PurchasePrice, 1e-9, "entry EBITDA 100 x 8.0")
	assert.InDelta(t, 240.0, detail.InitialEquity, 1e-9)
	assert.InDelta(t, 560.0, detail.InitialDebt, 1e-9)
	require.Len(t, detail.Schedule, 7)
	require.Len(t, detail.Exits, 3)

	// Debt only ever declines in a deficit-free schedule.
	prev := detail.InitialDebt
	for _, row := range detail.Schedule {
		assert.False(t, row.Deficit)
		assert.LessOrEqual(t, row.TotalEnd, prev+1e-9)
		prev = row.TotalEnd
	}

	assert.False(t, detail.HighRisk)
	assert.Equal(t, 5, detail.Headline.Year, "middle hold is the headline")
	assert.Greater(t, detail.Headline.MOIC, 1.0)
}

func TestValueMOICAndIRRConsistent(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	res, err := engine.Value(growingModel(7, 0.08), testTarget(), testDeal())
	require.NoError(t, err)

	detail := res.Detail.(Result)
	for _, exit := range detail.Exits {
		require.Greater(t, exit.MOIC, 0.0)
		// (1+IRR)^T must reproduce MOIC.
		assert.InDelta(t, exit.MOIC, math.Pow(1+exit.IRR, float64(exit.Year)), 1e-9)

		row := detail.Schedule[exit.Year-1]
		assert.InDelta(t, row.EBITDA*9.0, exit.ExitEV, 1e-9)
		assert.InDelta(t, exit.ExitEV-row.TotalEnd, exit.ExitEquityValue, 1e-9)
	}
}

func TestValueAbilityToPayBridge(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	fin := testTarget()
	res, err := engine.Value(growingModel(7, 0.08), fin, testDeal())
	require.NoError(t, err)

	detail := res.Detail.(Result)
	require.Greater(t, detail.Headline.ExitEquityValue, 0.0)

	requiredEquity := detail.Headline.ExitEquityValue / math.Pow(1.20, float64(detail.Headline.Year))
	assert.InDelta(t, requiredEquity+detail.InitialDebt, detail.MaxEntryEV, 1e-9)
	assert.InDelta(t, (detail.MaxEntryEV-fin.NetDebt())/fin.SharesOutstanding, detail.AbilityToPayPerShare, 1e-9)
	assert.InDelta(t, detail.AbilityToPayPerShare, res.PerShare, 1e-12)
}

func TestValueFlagsPersistentDeficits(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	// Capex swamps EBITDA in every year: cash available for debt service
	// stays negative and the senior tranche keeps growing.
	years := 7
	periods := make([]projection.Period, years)
	for i := range periods {
		periods[i] = projection.Period{
			FiscalYear: 2026 + i,
			Revenue:    500,
			EBITDA:     40,
			Capex:      120,
		}
	}
	model := &projection.ProjectionModel{
		Symbol: "TGT",
		Cases:  map[projection.Scenario][]projection.Period{projection.ScenarioBase: periods},
	}

	res, err := engine.Value(model, testTarget(), testDeal())
	require.NoError(t, err)
	require.True(t, res.Applicable)

	detail := res.Detail.(Result)
	assert.True(t, detail.HighRisk)
	assert.Equal(t, RecommendationImprove, detail.Recommendation)
	for _, row := range detail.Schedule {
		assert.True(t, row.Deficit)
		assert.Negative(t, row.CashAvailable)
	}
}

func TestValueInvalidStructureDegrades(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	deal := testDeal()
	deal.SeniorDebtPct = 0.60 // sum now 1.10

	res, err := engine.Value(growingModel(7, 0.08), testTarget(), deal)
	require.NoError(t, err)
	assert.False(t, res.Applicable)
	assert.Contains(t, res.Reason, "sum to 1.0")
}

func TestValuePurchasePriceOverride(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	deal := testDeal()
	deal.PurchasePrice = 900

	res, err := engine.Value(growingModel(7, 0.08), testTarget(), deal)
	require.NoError(t, err)
	detail := res.Detail.(Result)
	assert.InDelta(t, 900.0, detail.PurchasePrice, 1e-9)
}

func TestValueHoldsOutsideHorizonSkipped(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	deal := testDeal()
	deal.HoldYears = []int{10, 12}

	res, err := engine.Value(growingModel(7, 0.08), testTarget(), deal)
	require.NoError(t, err)
	assert.False(t, res.Applicable)
	assert.Contains(t, res.Reason, "exit year")
}

func TestValueInsufficientDataIsFatal(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	fin := testTarget()
	fin.SharesOutstanding = 0

	_, err := engine.Value(growingModel(7, 0.08), fin, testDeal())
	var dataErr *models.DataInsufficiencyError
	require.ErrorAs(t, err, &dataErr)
}

func TestBuildScheduleSweepOrder(t *testing.T) {
	base := growingModel(3, 0.10).Base()
	schedule, streak := buildSchedule(base, 800, 0.25, testDeal())
	require.Len(t, schedule, 3)
	assert.Zero(t, streak)

	// Sub debt is untouched until the senior tranche is repaid.
	for _, row := range schedule {
		if row.SeniorEnd > 0 {
			assert.InDelta(t, 160.0, row.SubEnd, 1e-9)
		}
	}
}
