package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/store"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetryOnTransientFailure(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return store.Violation(store.ErrTransient, "lock timeout")
		}
		return nil
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_BusinessErrorsFailFast(t *testing.T) {
	for _, sentinel := range []error{
		store.ErrNotFound,
		store.ErrConflict,
		store.ErrInvalidReference,
		store.ErrUnavailable,
		store.ErrInvalidState,
		store.ErrInvalidInput,
	} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			callCount := 0

			meta, err := RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
				callCount++
				return store.Violation(sentinel, "rule")
			})

			assert.ErrorIs(t, err, sentinel)
			assert.Equal(t, 1, callCount)
			assert.Equal(t, 1, meta.Attempts)
			assert.Equal(t, store.ErrorKind(sentinel), meta.LastErrorType)
		})
	}
}

func Test_RetryWithExponentialBackoff_ExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return store.ErrTransient
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithMaxAttempts(3), WithBaseDelay(time.Millisecond))

	assert.ErrorIs(t, err, store.ErrTransient)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "transient", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_StopsWhenContextIsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return store.ErrTransient
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.ErrorIs(t, err, store.ErrTransient)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_ContextErrorsAreNotRetried(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return errors.Join(store.ErrTransient, context.DeadlineExceeded)
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_deadline_exceeded", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_WithAllOptions(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 2 {
			return store.ErrTransient
		}
		return nil
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn,
		WithMaxAttempts(3),
		WithBaseDelay(5*time.Millisecond),
		WithJitterFactor(0.1),
	)

	assert.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.Equal(t, 2, meta.Attempts)
	assert.GreaterOrEqual(t, meta.TotalDelay, 5*time.Millisecond)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context) error { return nil }

	_, err := RetryWithExponentialBackoff(ctx, fn, WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, ErrNegativeBaseDelay)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithJitterFactor(1.5))
	assert.ErrorIs(t, err, ErrInvalidJitterFactor)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithMetrics(nil, "Checkout"))
	assert.ErrorIs(t, err, ErrNilMetricsCollector)
}

func Test_StatusOf_MapsErrorKinds(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusCanceled, StatusOf(errors.Join(store.ErrTransient, context.Canceled)))
	assert.Equal(t, StatusTimeout, StatusOf(errors.Join(store.ErrTransient, context.DeadlineExceeded)))
	assert.Equal(t, StatusConflict, StatusOf(store.Violation(store.ErrConflict, "email taken")))
	assert.Equal(t, StatusTransient, StatusOf(store.ErrTransient))
	assert.Equal(t, StatusRejected, StatusOf(store.ErrUnavailable))
	assert.Equal(t, StatusRejected, StatusOf(store.ErrNotFound))
	assert.Equal(t, StatusError, StatusOf(store.ErrQueryingFailed))
}
