package ingest

import (
	"context"
	"fmt"

	"acquisition_valuation/pkg/models"
)

// StaticProvider serves pre-loaded datasets. It backs local runs and tests
// the same way the cache fetcher backs live extraction in production.
type StaticProvider struct {
	Financials      map[string]*models.CompanyFinancials
	Classifications map[string]models.Classification
	Peers           map[string][]models.PeerRecord
	PeerRecords     map[string]models.PeerRecord
}

// NewStaticProvider creates an empty provider ready to be seeded.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		Financials:      make(map[string]*models.CompanyFinancials),
		Classifications: make(map[string]models.Classification),
		Peers:           make(map[string][]models.PeerRecord),
		PeerRecords:     make(map[string]models.PeerRecord),
	}
}

// FetchFinancials returns the seeded dataset or an ExternalServiceError.
func (p *StaticProvider) FetchFinancials(ctx context.Context, symbol string) (*models.CompanyFinancials, error) {
	if fin, ok := p.Financials[symbol]; ok {
		// Copy so callers cannot mutate the seed.
		clone := *fin
		clone.Periods = append([]models.HistoricalPeriod(nil), fin.Periods...)
		return &clone, nil
	}
	return nil, &models.ExternalServiceError{Service: BreakerFinancials, Err: fmt.Errorf("no dataset for %s", symbol)}
}

// Classify returns the seeded classification, defaulting to mature/medium.
func (p *StaticProvider) Classify(ctx context.Context, symbol string, fin *models.CompanyFinancials) (models.Classification, error) {
	if class, ok := p.Classifications[symbol]; ok {
		return class, nil
	}
	return models.Classification{Label: models.GrowthMature, RiskTier: models.RiskMedium}, nil
}

// ListPeers returns the seeded peer list for a symbol.
func (p *StaticProvider) ListPeers(ctx context.Context, symbol string) ([]models.PeerRecord, error) {
	if peers, ok := p.Peers[symbol]; ok {
		return append([]models.PeerRecord(nil), peers...), nil
	}
	return nil, &models.ExternalServiceError{Service: BreakerPeers, Err: fmt.Errorf("no peer list for %s", symbol)}
}

// ResolvePeer resolves a bare symbol into a full record.
func (p *StaticProvider) ResolvePeer(ctx context.Context, symbol string) (models.PeerRecord, error) {
	if record, ok := p.PeerRecords[symbol]; ok {
		return record, nil
	}
	return models.PeerRecord{}, &models.ExternalServiceError{Service: BreakerPeers, Err: fmt.Errorf("cannot resolve peer %s", symbol)}
}
