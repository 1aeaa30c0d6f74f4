package sqliteengine

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/library-lending-go/store"
)

// ErrNegativeBusyTimeout is returned by WithBusyTimeout for negative durations.
var ErrNegativeBusyTimeout = errors.New("busy timeout must not be negative")

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithLogger sets the logger for the Store.
func WithLogger(logger store.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
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

// WithBusyTimeout sets how long a writer waits for the database lock.
func WithBusyTimeout(timeout time.Duration) Option {
	return func(s *Store) error {
		if timeout < 0 {
			return ErrNegativeBusyTimeout
		}

		s.busyTimeout = timeout

		return nil
	}
}
