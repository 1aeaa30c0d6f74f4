package testdoubles

import (
	"context"
	"slices"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/store"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged under key and whether it was present.
func (r SpyLogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// logBook stores log records of all levels.
type logBook struct {
	records     []SpyLogRecord
	mu          sync.Mutex
	recordCalls bool
}

func (b *logBook) add(ctx context.Context, level, msg string, args []any) {
	if !b.recordCalls {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = append(b.records, SpyLogRecord{
		Level:   level,
		Message: msg,
		Args:    slices.Clone(args),
		Context: ctx,
	})
}

// RecordsAt returns a copy of all records of the given level ("debug", "info", "warn", "error").
func (b *logBook) RecordsAt(level string) []SpyLogRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []SpyLogRecord

	for _, record := range b.records {
		if record.Level == level {
			out = append(out, record)
		}
	}

	return out
}

// HasLog checks if a log with the given level and message exists.
func (b *logBook) HasLog(level, message string) bool {
	for _, record := range b.RecordsAt(level) {
		if record.Message == message {
			return true
		}
	}

	return false
}

// TotalRecordCount returns the number of log records across all levels.
func (b *logBook) TotalRecordCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.records)
}

// Reset clears all recorded log calls.
func (b *logBook) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = b.records[:0]
}

// ContextualLoggerSpy is a store.ContextualLogger that captures its calls.
type ContextualLoggerSpy struct {
	logBook
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
// Set recordCalls to true to capture calls for inspection.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{logBook: logBook{recordCalls: recordCalls}}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.add(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.add(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.add(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.add(ctx, "error", msg, args)
}

// LoggerSpy is a store.Logger that captures its calls.
type LoggerSpy struct {
	logBook
}

// NewLoggerSpy creates a new LoggerSpy.
func NewLoggerSpy(recordCalls bool) *LoggerSpy {
	return &LoggerSpy{logBook: logBook{recordCalls: recordCalls}}
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.add(context.Background(), "debug", msg, args) }

func (s *LoggerSpy) Info(msg string, args ...any) { s.add(context.Background(), "info", msg, args) }

func (s *LoggerSpy) Warn(msg string, args ...any) { s.add(context.Background(), "warn", msg, args) }

func (s *LoggerSpy) Error(msg string, args ...any) { s.add(context.Background(), "error", msg, args) }

var (
	_ store.ContextualLogger = (*ContextualLoggerSpy)(nil)
	_ store.Logger           = (*LoggerSpy)(nil)
)
