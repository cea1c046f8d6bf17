package errtax

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testBreaker() *CircuitBreaker {
	return NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})
}

func TestBreakerOpensAfterFailureThreshold(t *testing.T) {
	cb := testBreaker()
	boom := errors.New("boom")
	fail := func(ctx context.Context) error { return boom }

	require.ErrorIs(t, cb.Execute(context.Background(), fail), boom)
	require.Equal(t, StateClosed, cb.State())

	require.ErrorIs(t, cb.Execute(context.Background(), fail), boom)
	require.Equal(t, StateOpen, cb.State())

	// Open breaker rejects without running fn.
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run while the breaker is open")
		return nil
	})
	require.Error(t, err)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := testBreaker()
	boom := errors.New("boom")
	fail := func(ctx context.Context) error { return boom }
	ok := func(ctx context.Context) error { return nil }

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	require.NoError(t, cb.Execute(context.Background(), ok))
	require.Equal(t, StateClosed, cb.State())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := testBreaker()
	boom := errors.New("boom")
	fail := func(ctx context.Context) error { return boom }

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	time.Sleep(15 * time.Millisecond)

	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())
}
