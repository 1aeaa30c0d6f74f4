package shell

import "errors"

// ErrIdempotentOperation is returned by transactional work to signal that there was nothing to change.
// ExecuteInTx reports it as an idempotent success instead of an error.
var ErrIdempotentOperation = errors.New("idempotent operation")
