package reconcile

import "acquisition_valuation/pkg/models"

// AccretionInput describes the transaction financing mix.
type AccretionInput struct {
	OfferPerShare float64 `json:"offer_per_share"`
	StockPct      float64 `json:"stock_pct"` // remainder assumed cash
	CashRate      float64 `json:"cash_rate"` // pre-tax cost of cash/new debt
}

// AccretionResult compares pro-forma EPS against the acquirer standalone.
type AccretionResult struct {
	AcquirerEPS  float64 `json:"acquirer_eps"`
	ProFormaEPS  float64 `json:"pro_forma_eps"`
	DeltaPct     float64 `json:"delta_pct"`
	Accretive    bool    `json:"accretive"`
	NewShares    float64 `json:"new_shares_issued"`
	CashPortion  float64 `json:"cash_portion"`
	StockPortion float64 `json:"stock_portion"`
}

// AccretionDilution computes the change in pro-forma EPS versus the
// acquirer's standalone EPS for a stock/cash mix at the offer price. Data
// contract violations on either company are fatal, not defaulted.
func AccretionDilution(acquirer, target *models.CompanyFinancials, in AccretionInput) (AccretionResult, error) {
	if err := acquirer.Validate(); err != nil {
		return AccretionResult{}, err
	}
	if err := target.Validate(); err != nil {
		return AccretionResult{}, err
	}
	if in.OfferPerShare <= 0 {
		return AccretionResult{}, &models.CalculationError{Op: "accretion_dilution", Reason: "offer per share must be positive"}
	}
	if acquirer.Price <= 0 {
		return AccretionResult{}, &models.DataInsufficiencyError{Company: acquirer.Symbol, Field: "price", Reason: "required to issue stock consideration"}
	}

	dealValue := in.OfferPerShare * target.SharesOutstanding
	stockPortion := dealValue * in.StockPct
	cashPortion := dealValue - stockPortion
	newShares := stockPortion / acquirer.Price

	// Foregone after-tax return on the cash consideration.
	financingDrag := cashPortion * in.CashRate * (1 - acquirer.TaxRate)

	acquirerNI := acquirer.Latest().NetIncome
	targetNI := target.Latest().NetIncome

	acquirerEPS := acquirerNI / acquirer.SharesOutstanding
	proFormaEPS := (acquirerNI + targetNI - financingDrag) / (acquirer.SharesOutstanding + newShares)

	res := AccretionResult{
		AcquirerEPS:  acquirerEPS,
		ProFormaEPS:  proFormaEPS,
		NewShares:    newShares,
		CashPortion:  cashPortion,
		StockPortion: stockPortion,
		Accretive:    proFormaEPS > acquirerEPS,
	}
	if acquirerEPS != 0 {
		res.DeltaPct = (proFormaEPS - acquirerEPS) / acquirerEPS
	}
	return res, nil
}
