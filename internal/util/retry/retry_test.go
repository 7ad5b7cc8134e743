package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithExponentialBackoff_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := WithExponentialBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithExponentialBackoff_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := WithExponentialBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond), WithMaxDelay(5*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithExponentialBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := WithExponentialBackoff(context.Background(), func() error {
		calls++
		return errors.New("always failing")
	}, WithMaxRetries(2), WithInitialDelay(time.Millisecond))
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "always failing")
}

func TestWithExponentialBackoff_FatalNotRetried(t *testing.T) {
	calls := 0
	err := WithExponentialBackoff(context.Background(), func() error {
		calls++
		return Fatal(errors.New("bad input"))
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "not retrying")
}

func TestWithExponentialBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithExponentialBackoff(ctx, func() error {
		return errors.New("transient")
	}, WithMaxRetries(3), WithInitialDelay(50*time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.True(t, IsFatal(Fatal(errors.New("fatal"))))

	wrapped := Fatal(errors.New("inner"))
	assert.Equal(t, "inner", wrapped.Error())
	assert.EqualError(t, errors.Unwrap(wrapped), "inner")
}
