package errors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorFormatting(t *testing.T) {
	err := New(CodeRunFailed, "run ended badly", CategoryPermanent)
	assert.Equal(t, "[RUN_FAILED] run ended badly", err.Error())

	wrapped := Wrap(errors.New("boom"), CodeRunFailed, "run ended badly", CategoryPermanent)
	assert.Equal(t, "[RUN_FAILED] run ended badly: boom", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeRunFailed, "whatever", CategoryPermanent))
}

func TestWrapPreservesRetryability(t *testing.T) {
	inner := RateLimit(CodeModelRateLimit, "slow down", 2*time.Second)
	wrapped := Wrap(inner, CodeModelUnavailable, "completion failed", CategoryPermanent)

	assert.True(t, wrapped.Retryable)
	assert.Equal(t, 2*time.Second, GetRetryAfter(wrapped))
	assert.True(t, errors.Is(wrapped, inner) || errors.As(wrapped, new(*AppError)))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(Temporary(CodeModelUnavailable, "timeout")))
	assert.False(t, IsRetryable(Permanent(CodeToolNotFound, "missing")))
	assert.False(t, IsRetryable(Config(CodeConfigMissing, "no key")))
	// Unknown errors default to retryable
	assert.True(t, IsRetryable(errors.New("mystery")))
}

func TestGetCategory(t *testing.T) {
	assert.Equal(t, CategoryConfig, GetCategory(Config(CodeConfigMissing, "no key")))
	assert.Equal(t, CategoryTemporary, GetCategory(errors.New("mystery")))
	assert.Equal(t, "config", CategoryConfig.String())
	assert.Equal(t, "rate_limit", CategoryRateLimit.String())
}

func TestDoWithResultRetriesUntilSuccess(t *testing.T) {
	policy := &Policy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		RetryIf:      IsRetryable,
	}

	attempts := 0
	result, err := DoWithResult(context.Background(), policy, func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", Temporary(CodeModelUnavailable, "not yet")
		}
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 3, attempts)
}

func TestDoWithResultStopsOnPermanent(t *testing.T) {
	attempts := 0
	_, err := DoWithResult(context.Background(), DefaultPolicy(), func() (string, error) {
		attempts++
		return "", Permanent(CodeToolNotFound, "gone")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoWithResultExhaustsAttempts(t *testing.T) {
	policy := &Policy{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
		RetryIf:      IsRetryable,
	}

	attempts := 0
	_, err := DoWithResult(context.Background(), policy, func() (int, error) {
		attempts++
		return 0, Temporary(CodeModelUnavailable, "still down")
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestDoWithResultHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := &Policy{
		MaxAttempts:  5,
		InitialDelay: time.Hour,
		MaxDelay:     time.Hour,
		Multiplier:   1.0,
		RetryIf:      IsRetryable,
	}

	_, err := DoWithResult(ctx, policy, func() (int, error) {
		return 0, Temporary(CodeModelUnavailable, "down")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry canceled")
}

func TestNoRetry(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), NoRetry(), func() error {
		attempts++
		return Temporary(CodeModelUnavailable, "down")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
