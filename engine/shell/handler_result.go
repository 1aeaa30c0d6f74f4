package shell

import "time"

// HandlerResult is what a command handler reports next to its value and error: whether anything
// was written and how hard the store had to be asked. The observable wrappers turn it into
// metrics and log attributes, so handlers never talk to collectors themselves.
type HandlerResult struct {
	// Idempotent is set when the command found the store already in the requested state,
	// e.g. linking an author twice or an update without attributes. Nothing was written.
	Idempotent bool

	// RetryAttempts counts transactions started, so 1 means no retry.
	RetryAttempts int

	// TotalRetryDelay is the time spent sleeping between attempts.
	TotalRetryDelay time.Duration

	// LastErrorType is the ErrorKind of the last failed attempt, "none" if there was none.
	LastErrorType string

	// RetriesExhausted is set when the last attempt still failed transiently.
	RetriesExhausted bool
}

func resultFrom(m RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    m.Attempts,
		TotalRetryDelay:  m.TotalDelay,
		LastErrorType:    m.LastErrorType,
		RetriesExhausted: m.RetriesExhausted,
	}
}

// NewSuccessResult reports a committed write.
func NewSuccessResult(m RetryMetrics) HandlerResult {
	return resultFrom(m)
}

// NewIdempotentResult reports a command that committed without writing.
func NewIdempotentResult(m RetryMetrics) HandlerResult {
	result := resultFrom(m)
	result.Idempotent = true
	result.LastErrorType = ErrorTypeNone

	return result
}

// NewErrorResult reports a failed command. The retry data is kept so a Transient failure after
// several attempts is distinguishable from an immediate business rejection.
func NewErrorResult(m RetryMetrics) HandlerResult {
	return resultFrom(m)
}
