// Package testdoubles provides spies for the store observability interfaces.
//
//   - MetricsCollectorSpy: captures duration, counter and value records
//   - TracingCollectorSpy: captures spans with their start and finish attributes
//   - ContextualLoggerSpy: captures context-aware log calls per level
//   - LoggerSpy: captures basic log calls per level
//
// The spies let tests assert on instrumentation without a telemetry backend.
package testdoubles
