package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/library-lending-go/store/oteladapters"
)

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message", "loan_id", 42)
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message", "error_kind", "conflict")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"msg":"debug message"`)
	assert.Contains(t, output, `"loan_id":42`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.Contains(t, output, `"error_kind":"conflict"`)
}

func Test_NewSlogBridgeLogger_UsesGlobalProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("library")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "hello")
	})
}

func Test_OTelLogger_HandlesOddArguments(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "typed", "s", "v", "i", 1, "i64", int64(2), "f", 1.5, "b", true, "other", []int{1})
		logger.WarnContext(ctx, "dangling key", "only_key")
		logger.ErrorContext(ctx, "non-string key", 7, "v")
		logger.DebugContext(ctx, "no args")
	})
}
