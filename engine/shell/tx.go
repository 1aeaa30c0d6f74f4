package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/store"
)

// TxWork is a retryable unit of work that produces a value inside a transaction.
type TxWork[R any] func(ctx context.Context, tx store.Tx) (R, error)

// ExecuteInTx runs work in a fresh transaction per attempt and retries transient failures with
// exponential backoff. The value of a failed attempt is discarded, so work must derive everything
// from what it reads inside its own transaction.
func ExecuteInTx[R any](
	ctx context.Context,
	runner TxRunner,
	retryOptions []RetryOption,
	work TxWork[R],
) (R, HandlerResult, error) {
	var result R
	var idempotent bool

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var zero R
		result = zero
		idempotent = false

		return runner.InTx(retryCtx, func(txCtx context.Context, tx store.Tx) error {
			value, workErr := work(txCtx, tx)

			// nothing was written, committing the empty transaction keeps it out of the rollback metrics
			if errors.Is(workErr, ErrIdempotentOperation) {
				idempotent = true
				result = value

				return nil
			}

			if workErr != nil {
				return workErr
			}

			result = value

			return nil
		})
	}, retryOptions...)

	if err == nil && idempotent {
		return result, NewIdempotentResult(retryMetrics), nil
	}

	if err != nil {
		var zero R
		return zero, NewErrorResult(retryMetrics), err
	}

	return result, NewSuccessResult(retryMetrics), nil
}

// ExecuteRead runs read-only work against the store and returns its value.
func ExecuteRead[R any](ctx context.Context, runner ReadRunner, work func(ctx context.Context, r store.Reader) (R, error)) (R, error) {
	var result R

	err := runner.Read(ctx, func(readCtx context.Context, r store.Reader) error {
		value, workErr := work(readCtx, r)
		if workErr != nil {
			return workErr
		}

		result = value

		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}

	return result, nil
}
