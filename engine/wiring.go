package engine

import (
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/engine/shell/observable"
)

// wiring collects constructor errors while the Library is assembled.
type wiring struct {
	config config
	errs   []error
}

func wrapCommand[C shell.Command, R any](w *wiring, handle shell.CommandHandlerFunc[C, R]) *observable.CommandWrapper[C, R] {
	wrapper, err := observable.NewCommandWrapper[C, R](
		handle,
		observable.WithCommandLogging[C, R](w.config.logger),
		observable.WithCommandContextualLogging[C, R](w.config.contextualLogger),
		observable.WithCommandMetrics[C, R](w.config.metricsCollector),
		observable.WithCommandTracing[C, R](w.config.tracingCollector),
	)
	w.errs = append(w.errs, err)

	return wrapper
}

func wrapQuery[Q shell.Query, R any](w *wiring, handle shell.QueryHandlerFunc[Q, R]) *observable.QueryWrapper[Q, R] {
	wrapper, err := observable.NewQueryWrapper[Q, R](
		handle,
		observable.WithQueryLogging[Q, R](w.config.logger),
		observable.WithQueryContextualLogging[Q, R](w.config.contextualLogger),
		observable.WithQueryMetrics[Q, R](w.config.metricsCollector),
		observable.WithQueryTracing[Q, R](w.config.tracingCollector),
	)
	w.errs = append(w.errs, err)

	return wrapper
}
