// Package oteladapters provides OpenTelemetry implementations of the store observability interfaces
// (store.MetricsCollector, store.TracingCollector, store.ContextualLogger). The same adapters are used
// by the store engines and by the command and query wrappers of the engine layer.
package oteladapters
