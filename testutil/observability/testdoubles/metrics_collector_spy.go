package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-lending-go/store"
)

// SpyMetricRecord represents one recorded metrics call.
// Duration is set for duration records, Value for value records.
type SpyMetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

const (
	recordTypeDuration = "duration"
	recordTypeCounter  = "counter"
	recordTypeValue    = "value"
)

// MetricsCollectorSpy is a store.ContextualMetricsCollector that captures its calls.
type MetricsCollectorSpy struct {
	records     map[string][]SpyMetricRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
// Set recordCalls to true to capture all metrics calls for inspection in tests.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		records:     make(map[string][]SpyMetricRecord),
		recordCalls: recordCalls,
	}
}

func (s *MetricsCollectorSpy) add(recordType string, record SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.Labels = maps.Clone(record.Labels)
	s.records[recordType] = append(s.records[recordType], record)
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.add(recordTypeDuration, SpyMetricRecord{Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.add(recordTypeCounter, SpyMetricRecord{Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.add(recordTypeValue, SpyMetricRecord{Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

func (s *MetricsCollectorSpy) recordsOf(recordType, metric string) []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []SpyMetricRecord

	for _, record := range s.records[recordType] {
		if metric == "" || record.Metric == metric {
			out = append(out, record)
		}
	}

	return out
}

// GetDurationRecords returns a copy of all duration records.
func (s *MetricsCollectorSpy) GetDurationRecords() []SpyMetricRecord {
	return s.recordsOf(recordTypeDuration, "")
}

// GetCounterRecords returns a copy of all counter records.
func (s *MetricsCollectorSpy) GetCounterRecords() []SpyMetricRecord {
	return s.recordsOf(recordTypeCounter, "")
}

// CountCounterRecordsForMetric counts the counter records of one metric.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	return len(s.recordsOf(recordTypeCounter, metric))
}

// CountDurationRecordsForMetric counts the duration records of one metric.
func (s *MetricsCollectorSpy) CountDurationRecordsForMetric(metric string) int {
	return len(s.recordsOf(recordTypeDuration, metric))
}

// Reset clears all recorded metrics.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string][]SpyMetricRecord)
}

// HasDurationRecordForMetric starts a fluent match on the duration records of metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.recordsOf(recordTypeDuration, metric)}
}

// HasCounterRecordForMetric starts a fluent match on the counter records of metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.recordsOf(recordTypeCounter, metric)}
}

// MetricRecordMatcher narrows a set of records by label. Assert is true if any record is left.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

// WithLabel keeps the records carrying key=value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	kept := m.candidates[:0:0]

	for _, record := range m.candidates {
		if record.Labels[key] == value {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

// WithStatus keeps the records with the given status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// WithOperation keeps the records with the given operation label.
func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

// Assert returns true if at least one record matched all conditions.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

var _ store.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
