// Package ingest defines the boundaries to the external data collaborators
// (normalizer, classifier, peer resolver) and the resilience plumbing the
// coordinator wraps around them: bounded retries with exponential backoff,
// circuit breakers and per-call timeouts.
package ingest

import (
	"context"

	"acquisition_valuation/pkg/models"
)

// FinancialsProvider fetches the normalized financial dataset for a company.
// Implementations sit in front of the external normalization service.
type FinancialsProvider interface {
	FetchFinancials(ctx context.Context, symbol string) (*models.CompanyFinancials, error)
}

// Classifier returns the lifecycle/growth classification for a company.
type Classifier interface {
	Classify(ctx context.Context, symbol string, fin *models.CompanyFinancials) (models.Classification, error)
}

// PeerResolver lists candidate peers for a company and resolves bare symbols
// into full records.
type PeerResolver interface {
	ListPeers(ctx context.Context, symbol string) ([]models.PeerRecord, error)
	ResolvePeer(ctx context.Context, symbol string) (models.PeerRecord, error)
}
