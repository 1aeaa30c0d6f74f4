package engine

import (
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
)

// Option configures a Library.
type Option func(*config)

type config struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	retryOptions     []shell.RetryOption
	eventualReads    bool
}

// WithLogger sets a logger for command and query logging.
func WithLogger(logger shell.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(c *config) {
		c.contextualLogger = logger
	}
}

// WithMetrics sets the metrics collector for command and query metrics.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(c *config) {
		c.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector for command and query spans.
func WithTracing(collector shell.TracingCollector) Option {
	return func(c *config) {
		c.tracingCollector = collector
	}
}

// WithRetryOptions configures how transient failures of every command are retried.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(c *config) {
		c.retryOptions = opts
	}
}

// WithEventualConsistencyReads lets queries be served by a read replica when the store has one.
func WithEventualConsistencyReads() Option {
	return func(c *config) {
		c.eventualReads = true
	}
}
