package postgresengine

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/store"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Committed and rolled back transactions with durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger store.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// When set it takes precedence over WithLogger and receives trace-correlated log records.
func WithContextualLogger(logger store.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
func WithMetrics(collector store.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Store.
func WithTracing(collector store.TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithClock replaces the system clock used for Tx.Today.
func WithClock(clock store.Clock) Option {
	return func(s *Store) error {
		if clock == nil {
			return store.ErrNilClock
		}

		s.clock = clock

		return nil
	}
}

// WithLockTimeout bounds how long a statement waits for a row lock before failing with store.ErrTransient.
// Zero disables the limit.
func WithLockTimeout(timeout time.Duration) Option {
	return func(s *Store) error {
		if timeout < 0 {
			return ErrNegativeLockTimeout
		}

		s.lockTimeout = timeout

		return nil
	}
}
