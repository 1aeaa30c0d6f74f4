// Package shell holds the infrastructure shared by all engine operations: transactional execution
// with bounded retry, handler results, and the observability helpers the wrappers in package
// observable build on.
//
// Handlers in the feature packages keep their business rules in pure Decide functions and only use
// this package for the imperative shell around them:
//
//	result, err := shell.ExecuteInTx(ctx, store, retryOptions, func(ctx context.Context, tx store.Tx) (Loan, error) {
//		...
//	})
package shell
