package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"acquisition_valuation/pkg/models"
)

// Breaker names for the external collaborators.
const (
	BreakerFinancials = "financials"
	BreakerClassifier = "classifier"
	BreakerPeers      = "peers"
)

// BreakerRegistry manages one circuit breaker per collaborator so a flapping
// peer resolver cannot take the normalizer down with it.
type BreakerRegistry struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
	log      zerolog.Logger
}

// NewBreakerRegistry creates an empty registry.
func NewBreakerRegistry(log zerolog.Logger) *BreakerRegistry {
	return &BreakerRegistry{
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		log:      log.With().Str("component", "breaker_registry").Logger(),
	}
}

func (r *BreakerRegistry) get(name string) *gobreaker.CircuitBreaker[any] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[name]; ok {
		return cb
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	}
	cb := gobreaker.NewCircuitBreaker[any](settings)
	r.breakers[name] = cb
	return cb
}

// Execute runs fn through the named breaker with a per-call timeout. Breaker
// rejections and timeouts surface as ExternalServiceErrors, which the
// coordinator treats as recoverable for the affected branch.
func (r *BreakerRegistry) Execute(ctx context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	_, err := r.get(name).Execute(func() (any, error) {
		if callCtx.Err() != nil {
			return nil, callCtx.Err()
		}
		return nil, fn(callCtx)
	})
	if err != nil {
		return &models.ExternalServiceError{Service: name, Err: err}
	}
	return nil
}
