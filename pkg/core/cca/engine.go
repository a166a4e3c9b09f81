// Package cca implements comparable-company analysis: peer resolution, peer
// trading multiples with minimum-sample statistics, and the implied per-share
// valuation blended across applicable multiple types.
package cca

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"acquisition_valuation/pkg/core/calc"
	"acquisition_valuation/pkg/models"
)

// MinValidPeers is the minimum sample per multiple type; below it the type is
// reported insufficient_data and excluded from blending.
const MinValidPeers = 3

// maxResolveConcurrency bounds parallel peer-resolution calls.
const maxResolveConcurrency = 4

// defaultResolveTimeout bounds one resolution call when the caller does not
// configure a collaborator timeout.
const defaultResolveTimeout = 10 * time.Second

// MultipleType names one peer trading multiple.
type MultipleType string

const (
	MultipleEVEBITDA  MultipleType = "ev_ebitda"
	MultipleEVRevenue MultipleType = "ev_revenue"
	MultiplePE        MultipleType = "pe"
)

// multipleTypes in reporting order.
var multipleTypes = []MultipleType{MultipleEVEBITDA, MultipleEVRevenue, MultiplePE}

// Resolver turns a bare peer symbol into a full record. Implementations live
// behind the external market-data boundary.
type Resolver interface {
	ResolvePeer(ctx context.Context, symbol string) (models.PeerRecord, error)
}

// MultipleStats carries statistics for one multiple type across valid peers.
type MultipleStats struct {
	Type             MultipleType `json:"type"`
	Stats            calc.Stats   `json:"stats"`
	InsufficientData bool         `json:"insufficient_data"`
}

// SubMethod is the implied value from applying one multiple's median to the
// target's corresponding metric.
type SubMethod struct {
	Type            MultipleType `json:"type"`
	Applicable      bool         `json:"applicable"`
	Reason          string       `json:"reason,omitempty"`
	MedianMultiple  float64      `json:"median_multiple,omitempty"`
	EnterpriseValue float64      `json:"implied_enterprise_value,omitempty"`
	PerShare        float64      `json:"implied_per_share,omitempty"`
}

// Result is the full CCA output for one target.
type Result struct {
	PeerCount  int                            `json:"peer_count"`
	Discarded  []string                       `json:"discarded_peers,omitempty"`
	Statistics map[MultipleType]MultipleStats `json:"statistics_by_multiple"`
	PerMethod  []SubMethod                    `json:"implied_per_method"`
	Blended    float64                        `json:"blended_per_share,omitempty"`
}

// Engine runs comparable-company analysis.
type Engine struct {
	resolver Resolver
	timeout  time.Duration
	log      zerolog.Logger
}

// NewEngine creates a CCA engine backed by the given peer resolver. Each
// resolution call is bounded by timeout; a non-positive value falls back to
// the default.
func NewEngine(resolver Resolver, timeout time.Duration, log zerolog.Logger) *Engine {
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	return &Engine{
		resolver: resolver,
		timeout:  timeout,
		log:      log.With().Str("component", "cca_engine").Logger(),
	}
}

// Value resolves peers, computes multiple statistics and the implied blended
// per-share value. Data-contract violations on the target are fatal; an empty
// or unusable peer set degrades into an Applicable=false envelope.
func (e *Engine) Value(ctx context.Context, target *models.CompanyFinancials, peers []models.PeerRecord) (models.ValuationResult, error) {
	if err := target.Validate(); err != nil {
		return models.ValuationResult{}, err
	}

	valid, discarded := e.resolveAll(ctx, peers)
	res := Result{
		PeerCount:  len(valid),
		Discarded:  discarded,
		Statistics: make(map[MultipleType]MultipleStats, len(multipleTypes)),
	}

	for _, mt := range multipleTypes {
		values := collectMultiples(valid, mt)
		ms := MultipleStats{Type: mt}
		if len(values) < MinValidPeers {
			ms.InsufficientData = true
		} else {
			ms.Stats = calc.Describe(values)
		}
		res.Statistics[mt] = ms
	}

	var applicable []float64
	for _, mt := range multipleTypes {
		sub := e.applyMultiple(target, res.Statistics[mt])
		res.PerMethod = append(res.PerMethod, sub)
		if sub.Applicable {
			applicable = append(applicable, sub.PerShare)
		}
	}

	if len(applicable) == 0 {
		e.log.Warn().Str("symbol", target.Symbol).Int("valid_peers", len(valid)).Msg("no applicable multiples")
		out := models.NotApplicable(models.MethodCCA, "no applicable multiple types")
		out.Detail = res
		return out, nil
	}

	var sum float64
	for _, v := range applicable {
		sum += v
	}
	res.Blended = sum / float64(len(applicable))

	return models.ValuationResult{
		Method:     models.MethodCCA,
		Applicable: true,
		PerShare:   res.Blended,
		Detail:     res,
	}, nil
}

// resolveAll resolves unresolved peers with bounded concurrency and a
// per-call timeout, discarding invalid records. A peer that cannot be
// resolved before the deadline, or whose market cap or revenue is not
// strictly positive, is discarded, never zero-filled. Order is preserved so
// identical inputs give identical statistics.
func (e *Engine) resolveAll(ctx context.Context, peers []models.PeerRecord) ([]models.PeerRecord, []string) {
	resolved := make([]models.PeerRecord, len(peers))
	failed := make([]bool, len(peers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxResolveConcurrency)
	for i, peer := range peers {
		if peer.Resolved {
			resolved[i] = peer
			continue
		}
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, e.timeout)
			defer cancel()
			record, err := e.resolver.ResolvePeer(callCtx, peer.Symbol)
			if err != nil {
				e.log.Warn().Str("peer", peer.Symbol).Err(err).Msg("peer resolution failed, discarding")
				failed[i] = true
				return nil
			}
			resolved[i] = record
			return nil
		})
	}
	_ = g.Wait()

	var valid []models.PeerRecord
	var discarded []string
	for i, record := range resolved {
		if failed[i] || !record.Valid() {
			discarded = append(discarded, peers[i].Symbol)
			continue
		}
		valid = append(valid, record)
	}
	return valid, discarded
}

// collectMultiples gathers one multiple across valid peers. P/E excludes any
// peer with non-positive earnings; EV/EBITDA excludes non-positive EBITDA.
func collectMultiples(peers []models.PeerRecord, mt MultipleType) []float64 {
	var values []float64
	for _, p := range peers {
		switch mt {
		case MultipleEVEBITDA:
			if p.EBITDA > 0 {
				values = append(values, p.EnterpriseValue()/p.EBITDA)
			}
		case MultipleEVRevenue:
			values = append(values, p.EnterpriseValue()/p.Revenue)
		case MultiplePE:
			if p.NetIncome > 0 && p.MarketCap > 0 {
				values = append(values, p.MarketCap/p.NetIncome)
			}
		}
	}
	return values
}

// applyMultiple converts one multiple's median into an implied per-share
// value for the target. A negative computed value marks the sub-method
// not-applicable instead of being returned.
func (e *Engine) applyMultiple(target *models.CompanyFinancials, ms MultipleStats) SubMethod {
	sub := SubMethod{Type: ms.Type}
	if ms.InsufficientData {
		sub.Reason = "insufficient_data"
		return sub
	}
	sub.MedianMultiple = ms.Stats.Median

	latest := target.Latest()
	netDebt := target.NetDebt()

	var perShare float64
	switch ms.Type {
	case MultipleEVEBITDA:
		if latest.EBITDA <= 0 {
			sub.Reason = "target EBITDA not positive"
			return sub
		}
		sub.EnterpriseValue = ms.Stats.Median * latest.EBITDA
		perShare = (sub.EnterpriseValue - netDebt) / target.SharesOutstanding
	case MultipleEVRevenue:
		if latest.Revenue <= 0 {
			sub.Reason = "target revenue not positive"
			return sub
		}
		sub.EnterpriseValue = ms.Stats.Median * latest.Revenue
		perShare = (sub.EnterpriseValue - netDebt) / target.SharesOutstanding
	case MultiplePE:
		if latest.NetIncome <= 0 {
			sub.Reason = "target earnings not positive"
			return sub
		}
		perShare = ms.Stats.Median * latest.NetIncome / target.SharesOutstanding
	}

	if perShare < 0 {
		sub.Reason = "implied per-share value negative"
		return sub
	}
	sub.Applicable = true
	sub.PerShare = perShare
	return sub
}
