package projection

import (
	"math"

	"acquisition_valuation/pkg/models"
)

// deriveBaseDrivers back-solves growth and margin drivers from the normalized
// history: revenue CAGR, average EBITDA margin, capex and D&A intensity,
// effective tax rate and implied interest rate. Missing history falls back to
// classification-informed defaults rather than zero.
func deriveBaseDrivers(fin *models.CompanyFinancials, class models.Classification) Drivers {
	periods := fin.Periods
	latest := fin.Latest()

	d := Drivers{
		RevenueGrowth:    defaultGrowth(class.Label),
		EBITDAMargin:     0.20,
		DAPercentRevenue: 0.04,
		CapexPercent:     0.05,
		NWCPercentDelta:  0.01,
		EffectiveTaxRate: 0.21,
		InterestRate:     0.05,
	}

	if len(periods) >= 2 {
		first, last := periods[0], latest
		years := float64(len(periods) - 1)
		if first.Revenue > 0 && last.Revenue > 0 {
			cagr := math.Pow(last.Revenue/first.Revenue, 1/years) - 1
			d.RevenueGrowth = clamp(cagr, -0.20, 0.50)
		}
	}

	var marginSum, marginN float64
	for _, p := range periods {
		if p.Revenue > 0 {
			marginSum += p.EBITDA / p.Revenue
			marginN++
		}
	}
	if marginN > 0 {
		d.EBITDAMargin = marginSum / marginN
	}

	if latest.Revenue > 0 {
		if latest.DepreciationAmortization > 0 {
			d.DAPercentRevenue = latest.DepreciationAmortization / latest.Revenue
		}
		if latest.Capex > 0 {
			d.CapexPercent = latest.Capex / latest.Revenue
		}
	}

	if fin.TaxRate > 0 {
		d.EffectiveTaxRate = fin.TaxRate
	}

	return d
}

// scenarioDrivers spreads the base drivers into Bear/Base/Bull cases. Bear
// compresses growth and margin, bull expands them; the spread widens with the
// risk tier.
func scenarioDrivers(base Drivers, class models.Classification) map[Scenario]Drivers {
	spread := 0.25
	switch class.RiskTier {
	case models.RiskHigh:
		spread = 0.50
	case models.RiskMedium:
		spread = 0.35
	}

	bear := base
	bear.RevenueGrowth = base.RevenueGrowth - math.Abs(base.RevenueGrowth)*spread - 0.01
	bear.EBITDAMargin = base.EBITDAMargin * (1 - spread/2)

	bull := base
	bull.RevenueGrowth = base.RevenueGrowth + math.Abs(base.RevenueGrowth)*spread + 0.01
	bull.EBITDAMargin = base.EBITDAMargin * (1 + spread/2)

	return map[Scenario]Drivers{
		ScenarioBear: bear,
		ScenarioBase: base,
		ScenarioBull: bull,
	}
}

func defaultGrowth(label models.GrowthLabel) float64 {
	switch label {
	case models.GrowthHyper:
		return 0.25
	case models.GrowthSteady:
		return 0.10
	case models.GrowthDistressed:
		return -0.05
	default:
		return 0.03
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
