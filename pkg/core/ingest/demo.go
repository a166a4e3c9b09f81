package ingest

import "acquisition_valuation/pkg/models"

// NewDemoProvider seeds a StaticProvider with a self-contained acquisition
// scenario, the local analog of the cached-filing demo data used when no live
// collaborators are configured.
func NewDemoProvider() *StaticProvider {
	p := NewStaticProvider()

	p.Financials["NMAD"] = &models.CompanyFinancials{
		Symbol:            "NMAD",
		Name:              "Nomad Robotics",
		SharesOutstanding: 120,
		Price:             38.5,
		Beta:              1.4,
		TaxRate:           0.21,
		Periods: []models.HistoricalPeriod{
			{FiscalYear: 2023, Revenue: 1800, EBITDA: 310, DepreciationAmortization: 95, NetIncome: 140, Capex: 120, ChangeNWC: 25, TotalDebt: 600, Cash: 240},
			{FiscalYear: 2024, Revenue: 2100, EBITDA: 380, DepreciationAmortization: 105, NetIncome: 175, Capex: 135, ChangeNWC: 30, TotalDebt: 580, Cash: 290},
			{FiscalYear: 2025, Revenue: 2450, EBITDA: 455, DepreciationAmortization: 115, NetIncome: 215, Capex: 150, ChangeNWC: 35, TotalDebt: 560, Cash: 350},
		},
	}
	p.Classifications["NMAD"] = models.Classification{Label: models.GrowthSteady, RiskTier: models.RiskMedium}

	p.Financials["ORCL2"] = &models.CompanyFinancials{
		Symbol:            "ORCL2",
		Name:              "Oracle Bay Holdings",
		SharesOutstanding: 900,
		Price:             62.0,
		Beta:              1.1,
		TaxRate:           0.23,
		Periods: []models.HistoricalPeriod{
			{FiscalYear: 2023, Revenue: 14500, EBITDA: 3900, DepreciationAmortization: 820, NetIncome: 2100, Capex: 900, ChangeNWC: 110, TotalDebt: 7200, Cash: 3100},
			{FiscalYear: 2024, Revenue: 15300, EBITDA: 4150, DepreciationAmortization: 860, NetIncome: 2260, Capex: 940, ChangeNWC: 95, TotalDebt: 7000, Cash: 3400},
			{FiscalYear: 2025, Revenue: 16100, EBITDA: 4420, DepreciationAmortization: 900, NetIncome: 2430, Capex: 980, ChangeNWC: 120, TotalDebt: 6800, Cash: 3750},
		},
	}
	p.Classifications["ORCL2"] = models.Classification{Label: models.GrowthMature, RiskTier: models.RiskLow}

	peers := []models.PeerRecord{
		{Symbol: "PEERA", Resolved: true, MarketCap: 5200, Price: 41, Revenue: 2600, EBITDA: 520, NetIncome: 240, TotalDebt: 700, Cash: 350},
		{Symbol: "PEERB", Resolved: true, MarketCap: 3900, Price: 27, Revenue: 2100, EBITDA: 410, NetIncome: 170, TotalDebt: 500, Cash: 220},
		{Symbol: "PEERC", Resolved: true, MarketCap: 6800, Price: 55, Revenue: 3300, EBITDA: 690, NetIncome: 330, TotalDebt: 950, Cash: 480},
		models.UnresolvedPeer("PEERD"),
	}
	p.Peers["NMAD"] = peers
	p.Peers["ORCL2"] = peers
	p.PeerRecords["PEERD"] = models.PeerRecord{
		Symbol: "PEERD", Resolved: true,
		MarketCap: 4400, Price: 33, Revenue: 2350, EBITDA: 460, NetIncome: 205, TotalDebt: 620, Cash: 300,
	}

	return p
}
