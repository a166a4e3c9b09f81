package pipeline

import (
	"acquisition_valuation/pkg/core/projection"
	"acquisition_valuation/pkg/core/reconcile"
	"acquisition_valuation/pkg/models"
)

// CompanyReport is everything produced for one company's track. A fatal
// upstream failure leaves the downstream fields nil and records the reason.
type CompanyReport struct {
	Symbol         string                      `json:"symbol"`
	Financials     *models.CompanyFinancials   `json:"financials,omitempty"`
	Classification models.Classification       `json:"classification"`
	Projection     *projection.ProjectionModel `json:"projection,omitempty"`
	Valuations     []models.ValuationResult    `json:"valuations,omitempty"`
	Reconciled     models.ReconciledValuation  `json:"reconciled"`
	Fatal          string                      `json:"fatal,omitempty"`
}

// Report is the full output of one analysis run, consumed by reporting
// collaborators. The run's stage log is the sole audit trail.
type Report struct {
	Run       *models.AnalysisRun        `json:"run"`
	Target    *CompanyReport             `json:"target"`
	Acquirer  *CompanyReport             `json:"acquirer"`
	Accretion *reconcile.AccretionResult `json:"accretion,omitempty"`
}
