package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_Success(t *testing.T) {
	cfg := Config{MaxRetries: 3, InitialBackoff: 10 * time.Millisecond}

	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_RetriesOnFailure(t *testing.T) {
	cfg := Config{MaxRetries: 3, InitialBackoff: time.Millisecond}

	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary error")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	cfg := Config{MaxRetries: 2, InitialBackoff: time.Millisecond}

	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return errors.New("persistent error")
	})
	assert.EqualError(t, err, "persistent error")
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_ZeroBackoff(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), Config{MaxRetries: 2}, func() error {
		calls++
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_Permanent(t *testing.T) {
	cfg := Config{MaxRetries: 5, InitialBackoff: time.Millisecond}
	sentinel := errors.New("bad request")

	calls := 0
	err := RetryWithBackoff(context.Background(), cfg, func() error {
		calls++
		return Permanent(sentinel)
	})
	assert.Equal(t, sentinel, err)
	assert.Equal(t, 1, calls)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestRetryWithBackoff_RespectsContext(t *testing.T) {
	cfg := Config{MaxRetries: 5, InitialBackoff: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, cfg, func() error {
		calls++
		return errors.New("error")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryWithBackoff_CancelDuringWait(t *testing.T) {
	cfg := Config{MaxRetries: 5, InitialBackoff: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := RetryWithBackoff(ctx, cfg, func() error {
		return errors.New("error")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCircuitBreaker_Trips(t *testing.T) {
	cb := NewCircuitBreaker("test")
	fail := func() (any, error) { return nil, errors.New("down") }

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(fail)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() (any, error) { return "ok", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreaker_StaysClosedBelowThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test")

	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, errors.New("down") })
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
