package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquisition_valuation/pkg/models"
)

var fastRetry = RetryConfig{
	MaxRetries:     3,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     5 * time.Millisecond,
}

func TestWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastRetry, zerolog.Nop(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhausted(t *testing.T) {
	calls := 0
	sentinel := errors.New("still down")
	err := WithRetry(context.Background(), fastRetry, zerolog.Nop(), func() error {
		calls++
		return sentinel
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, fastRetry.MaxRetries+1, calls)
}

func TestWithRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetry(ctx, fastRetry, zerolog.Nop(), func() error {
		calls++
		return errors.New("transient")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no further attempts after cancellation")
}

func TestBreakerExecuteWrapsFailures(t *testing.T) {
	reg := NewBreakerRegistry(zerolog.Nop())
	err := reg.Execute(context.Background(), "test_service", time.Second, func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.Error(t, err)

	var extErr *models.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "test_service", extErr.Service)
}

func TestBreakerOpensOnRepeatedFailures(t *testing.T) {
	reg := NewBreakerRegistry(zerolog.Nop())
	boom := errors.New("boom")

	for i := 0; i < 5; i++ {
		_ = reg.Execute(context.Background(), "flaky", time.Second, func(ctx context.Context) error {
			return boom
		})
	}

	// Breaker is open now: calls are rejected without reaching fn.
	reached := false
	err := reg.Execute(context.Background(), "flaky", time.Second, func(ctx context.Context) error {
		reached = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, reached)
}

func TestStaticProviderIsolation(t *testing.T) {
	p := NewDemoProvider()

	fin, err := p.FetchFinancials(context.Background(), "NMAD")
	require.NoError(t, err)
	fin.Periods[0].Revenue = -999

	again, err := p.FetchFinancials(context.Background(), "NMAD")
	require.NoError(t, err)
	assert.Greater(t, again.Periods[0].Revenue, 0.0, "callers get copies, not the seed")
}

func TestStaticProviderUnknownSymbol(t *testing.T) {
	p := NewStaticProvider()
	_, err := p.FetchFinancials(context.Background(), "NOPE")
	var extErr *models.ExternalServiceError
	require.ErrorAs(t, err, &extErr)

	_, err = p.ListPeers(context.Background(), "NOPE")
	require.ErrorAs(t, err, &extErr)

	_, err = p.ResolvePeer(context.Background(), "NOPE")
	require.ErrorAs(t, err, &extErr)
}
