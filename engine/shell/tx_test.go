package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
)

// runnerStub hands a nil session to the work and counts transactions.
type runnerStub struct {
	calls int
}

func (r *runnerStub) InTx(ctx context.Context, fn store.TxFunc) error {
	r.calls++
	return fn(ctx, nil)
}

func (r *runnerStub) Read(ctx context.Context, fn store.ReadFunc) error {
	return fn(ctx, nil)
}

var fastRetry = []shell.RetryOption{shell.WithBaseDelay(time.Millisecond)}

func Test_ExecuteInTx_ReturnsValueOfSuccessfulAttempt(t *testing.T) {
	// setup
	runner := &runnerStub{}
	attempt := 0

	// act
	value, result, err := shell.ExecuteInTx(context.Background(), runner, fastRetry, func(_ context.Context, _ store.Tx) (int, error) {
		attempt++
		if attempt == 1 {
			return 1, store.ErrTransient
		}
		return 42, nil
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, 2, runner.calls)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.False(t, result.Idempotent)
}

func Test_ExecuteInTx_ReturnsZeroValueOnError(t *testing.T) {
	// setup
	runner := &runnerStub{}

	// act
	value, result, err := shell.ExecuteInTx(context.Background(), runner, fastRetry, func(_ context.Context, _ store.Tx) (string, error) {
		return "partial", store.Violation(store.ErrUnavailable, "no copies left")
	})

	// assert
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Empty(t, value)
	assert.Equal(t, 1, result.RetryAttempts)
	assert.Equal(t, "unavailable", result.LastErrorType)
}

func Test_ExecuteInTx_ReportsIdempotentOperation(t *testing.T) {
	// setup
	runner := &runnerStub{}

	// act
	_, result, err := shell.ExecuteInTx(context.Background(), runner, nil, func(_ context.Context, _ store.Tx) (struct{}, error) {
		return struct{}{}, shell.ErrIdempotentOperation
	})

	// assert
	assert.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, "none", result.LastErrorType)
}

func Test_ExecuteRead_PropagatesErrors(t *testing.T) {
	// setup
	runner := &runnerStub{}
	boom := errors.New("boom")

	// act
	_, err := shell.ExecuteRead(context.Background(), runner, func(_ context.Context, _ store.Reader) (int, error) {
		return 0, boom
	})

	// assert
	assert.ErrorIs(t, err, boom)
}
