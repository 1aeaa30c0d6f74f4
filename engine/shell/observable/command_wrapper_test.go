package observable_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/engine/shell/observable"
	"github.com/AntonStoeckl/library-lending-go/store"
	. "github.com/AntonStoeckl/library-lending-go/testutil/observability/testdoubles" //nolint:revive
)

type mockCommand struct {
	Name string
}

func (mockCommand) CommandType() string { return "TestCommand" }

type mockHandler struct {
	value  string
	result shell.HandlerResult
	err    error
	calls  []mockCommand
	mu     sync.Mutex
}

func newMockHandler(value string, result shell.HandlerResult, err error) *mockHandler {
	return &mockHandler{value: value, result: result, err: err}
}

func (h *mockHandler) Handle(_ context.Context, command mockCommand) (string, shell.HandlerResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, command)

	return h.value, h.result, h.err
}

type wrapperSpies struct {
	metrics *MetricsCollectorSpy
	tracing *TracingCollectorSpy
	logger  *ContextualLoggerSpy
}

func newWrapper(t *testing.T, handler *mockHandler) (*observable.CommandWrapper[mockCommand, string], wrapperSpies) {
	t.Helper()

	spies := wrapperSpies{
		metrics: NewMetricsCollectorSpy(true),
		tracing: NewTracingCollectorSpy(true),
		logger:  NewContextualLoggerSpy(true),
	}

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		handler,
		observable.WithCommandMetrics[mockCommand, string](spies.metrics),
		observable.WithCommandTracing[mockCommand, string](spies.tracing),
		observable.WithCommandContextualLogging[mockCommand, string](spies.logger),
	)
	require.NoError(t, err)

	return wrapper, spies
}

func Test_CommandWrapper_Handle_Success_NonIdempotent(t *testing.T) {
	// arrange
	expectedResult := shell.HandlerResult{RetryAttempts: 1, LastErrorType: "none"}
	handler := newMockHandler("created", expectedResult, nil)
	wrapper, spies := newWrapper(t, handler)
	command := mockCommand{Name: "x"}

	// act
	value, result, err := wrapper.Handle(context.Background(), command)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "created", value)
	assert.Equal(t, expectedResult, result)
	assert.Equal(t, []mockCommand{command}, handler.calls)

	assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		WithStatus(shell.StatusSuccess).
		Assert(), "Should record success call")
	assert.True(t, spies.metrics.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithStatus(shell.StatusSuccess).
		Assert(), "Should record duration")
	assert.True(t, spies.tracing.HasSpanRecordForName(shell.SpanNameCommandHandle).
		WithStartAttribute(shell.LogAttrCommandType, "TestCommand").
		WithStatus(shell.StatusSuccess).
		Assert(), "Should finish span with success")
	assert.True(t, spies.logger.HasLog("info", shell.LogMsgCommandStarted))
	assert.True(t, spies.logger.HasLog("info", shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_Handle_Success_Idempotent(t *testing.T) {
	// arrange
	handler := newMockHandler("", shell.HandlerResult{Idempotent: true, RetryAttempts: 1}, nil)
	wrapper, spies := newWrapper(t, handler)

	// act
	_, result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 1, spies.metrics.CountCounterRecordsForMetric(shell.CommandHandlerIdempotentMetric))
	assert.True(t, spies.tracing.HasSpanRecordForName(shell.SpanNameCommandHandle).
		WithStatus(shell.StatusIdempotent).
		Assert())
}

func Test_CommandWrapper_Handle_OperationIDCorrelatesSpanAndLogs(t *testing.T) {
	// arrange
	handler := newMockHandler("ok", shell.HandlerResult{RetryAttempts: 1}, nil)
	wrapper, spies := newWrapper(t, handler)

	// act
	_, _, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	require.NoError(t, err)

	spans := spies.tracing.GetSpanRecords()
	require.Len(t, spans, 1)

	operationID := spans[0].StartAttributes[shell.LogAttrOperationID]
	assert.NotEmpty(t, operationID)

	for _, record := range spies.logger.RecordsAt("info") {
		value, ok := record.Attr(shell.LogAttrOperationID)
		assert.True(t, ok)
		assert.Equal(t, operationID, value)
	}
}

func Test_CommandWrapper_Handle_ErrorStatuses(t *testing.T) {
	testCases := []struct {
		name          string
		err           error
		status        string
		counterMetric string
		logLevel      string
		logMessage    string
	}{
		{"conflict", store.Violation(store.ErrConflict, "email taken"), shell.StatusConflict, shell.CommandHandlerConflictMetric, "info", shell.LogMsgCommandRejected},
		{"unavailable", store.Violation(store.ErrUnavailable, "no copies"), shell.StatusRejected, shell.CommandHandlerRejectedMetric, "info", shell.LogMsgCommandRejected},
		{"transient", store.ErrTransient, shell.StatusTransient, shell.CommandHandlerTransientMetric, "error", shell.LogMsgCommandFailed},
		{"canceled", errors.Join(store.ErrTransient, context.Canceled), shell.StatusCanceled, shell.CommandHandlerCanceledMetric, "error", shell.LogMsgCommandFailed},
		{"timeout", errors.Join(store.ErrTransient, context.DeadlineExceeded), shell.StatusTimeout, shell.CommandHandlerTimeoutMetric, "error", shell.LogMsgCommandFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			handler := newMockHandler("", shell.HandlerResult{RetryAttempts: 1}, tc.err)
			wrapper, spies := newWrapper(t, handler)

			// act
			_, _, err := wrapper.Handle(context.Background(), mockCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
				WithStatus(tc.status).
				Assert())
			assert.Equal(t, 1, spies.metrics.CountCounterRecordsForMetric(tc.counterMetric))
			assert.True(t, spies.tracing.HasSpanRecordForName(shell.SpanNameCommandHandle).
				WithStatus(tc.status).
				WithEndAttribute(shell.LogAttrErrorKind, store.ErrorKind(tc.err)).
				Assert())
			assert.True(t, spies.logger.HasLog(tc.logLevel, tc.logMessage))
		})
	}
}

func Test_CommandWrapper_Handle_RecordsRetryMetrics(t *testing.T) {
	// arrange
	handler := newMockHandler("", shell.HandlerResult{
		RetryAttempts:    6,
		TotalRetryDelay:  300 * time.Millisecond,
		LastErrorType:    "transient",
		RetriesExhausted: true,
	}, store.ErrTransient)
	wrapper, spies := newWrapper(t, handler)

	// act
	_, _, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.ErrorIs(t, err, store.ErrTransient)
	assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerRetriesMetric).
		WithLabel("attempt_number", "5").
		WithLabel("error_type", "transient").
		Assert())
	assert.Equal(t, 1, spies.metrics.CountDurationRecordsForMetric(shell.CommandHandlerRetryDelayMetric))
	assert.Equal(t, 1, spies.metrics.CountCounterRecordsForMetric(shell.CommandHandlerMaxRetriesReachedMetric))
}

func Test_CommandWrapper_Handle_WithBasicLogger(t *testing.T) {
	// arrange
	handler := newMockHandler("", shell.HandlerResult{}, errors.New("disk on fire"))
	logger := NewLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[mockCommand, string](
		handler,
		observable.WithCommandLogging[mockCommand, string](logger),
	)
	require.NoError(t, err)

	// act
	_, _, err = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.Error(t, err)
	assert.True(t, logger.HasLog("error", shell.LogMsgCommandFailed))
}
