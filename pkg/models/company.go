package models

// HistoricalPeriod is one normalized fiscal year of cleaned statement data.
// Values are in millions, expense items carry their natural sign conventions
// already applied by the external normalizer (all magnitudes positive).
type HistoricalPeriod struct {
	FiscalYear               int     `json:"fiscal_year"`
	Revenue                  float64 `json:"revenue"`
	EBITDA                   float64 `json:"ebitda"`
	DepreciationAmortization float64 `json:"depreciation_amortization"`
	NetIncome                float64 `json:"net_income"`
	Capex                    float64 `json:"capex"`
	ChangeNWC                float64 `json:"change_nwc"`
	TotalDebt                float64 `json:"total_debt"`
	Cash                     float64 `json:"cash"`
}

// CompanyFinancials holds the normalized historical statements for one
// company, as produced by the external normalizer. Periods are ordered
// oldest first.
type CompanyFinancials struct {
	Symbol            string             `json:"symbol"`
	Name              string             `json:"name,omitempty"`
	Periods           []HistoricalPeriod `json:"periods"`
	SharesOutstanding float64            `json:"shares_outstanding"` // Millions
	Price             float64            `json:"price"`
	Beta              float64            `json:"beta"`
	TaxRate           float64            `json:"tax_rate"`
}

// Validate enforces the input contract: shares outstanding strictly positive,
// price non-negative, and at least one historical period. Violations are
// DataInsufficiencyErrors and must never be defaulted away.
func (f *CompanyFinancials) Validate() error {
	if len(f.Periods) == 0 {
		return &DataInsufficiencyError{Company: f.Symbol, Field: "periods", Reason: "no historical periods"}
	}
	if f.SharesOutstanding <= 0 {
		return &DataInsufficiencyError{Company: f.Symbol, Field: "shares_outstanding", Reason: "must be strictly positive"}
	}
	if f.Price < 0 {
		return &DataInsufficiencyError{Company: f.Symbol, Field: "price", Reason: "must be non-negative"}
	}
	return nil
}

// Latest returns the most recent historical period.
func (f *CompanyFinancials) Latest() HistoricalPeriod {
	return f.Periods[len(f.Periods)-1]
}

// MarketCap is price times shares outstanding.
func (f *CompanyFinancials) MarketCap() float64 {
	return f.Price * f.SharesOutstanding
}

// NetDebt is total debt less cash for the latest period.
func (f *CompanyFinancials) NetDebt() float64 {
	latest := f.Latest()
	return latest.TotalDebt - latest.Cash
}

// EnterpriseValue is market cap plus total debt less cash.
func (f *CompanyFinancials) EnterpriseValue() float64 {
	return f.MarketCap() + f.NetDebt()
}

// GrowthLabel is the lifecycle classification produced by the external
// classification collaborator.
type GrowthLabel string

const (
	GrowthHyper      GrowthLabel = "hyper_growth"
	GrowthSteady     GrowthLabel = "growth"
	GrowthMature     GrowthLabel = "mature"
	GrowthDistressed GrowthLabel = "distressed"
)

// RiskTier qualifies the confidence in a company's cash flows.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Classification selects valuation assumptions: discount-rate proxies and the
// terminal-growth ceiling.
type Classification struct {
	Label    GrowthLabel `json:"label"`
	RiskTier RiskTier    `json:"risk_tier"`
}

// TerminalGrowthCeiling caps the perpetuity growth assumption by lifecycle.
// Hyper-growth names converge toward GDP-like growth; distressed names get
// no perpetuity growth at all.
func (c Classification) TerminalGrowthCeiling() float64 {
	switch c.Label {
	case GrowthHyper:
		return 0.04
	case GrowthSteady:
		return 0.03
	case GrowthDistressed:
		return 0.0
	default:
		return 0.025
	}
}

// RiskPremiumAdjustment is an additive spread on the cost of equity by tier.
func (c Classification) RiskPremiumAdjustment() float64 {
	switch c.RiskTier {
	case RiskHigh:
		return 0.02
	case RiskMedium:
		return 0.01
	default:
		return 0.0
	}
}
