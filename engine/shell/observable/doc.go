// Package observable decorates command and query handlers with metrics, tracing and logging.
//
// The wrappers never change outcomes: they pass the handler's result and error through unchanged
// and only translate them into instrumentation.
package observable
