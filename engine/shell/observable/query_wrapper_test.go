package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/engine/shell/observable"
	"github.com/AntonStoeckl/library-lending-go/store"
	. "github.com/AntonStoeckl/library-lending-go/testutil/observability/testdoubles" //nolint:revive
)

type mockQuery struct{}

func (mockQuery) QueryType() string { return "TestQuery" }

type mockQueryHandler struct {
	result []int
	err    error
}

func (h mockQueryHandler) Handle(_ context.Context, _ mockQuery) ([]int, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)
	tracing := NewTracingCollectorSpy(true)
	logger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, []int](
		mockQueryHandler{result: []int{1, 2}},
		observable.WithQueryMetrics[mockQuery, []int](metrics),
		observable.WithQueryTracing[mockQuery, []int](tracing),
		observable.WithQueryContextualLogging[mockQuery, []int](logger),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, result)
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "TestQuery").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, tracing.HasSpanRecordForName(shell.SpanNameQueryHandle).WithStatus(shell.StatusSuccess).Assert())
	assert.True(t, logger.HasLog("debug", shell.LogMsgQueryStarted))
	assert.True(t, logger.HasLog("info", shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_NotFoundIsRejection(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)
	logger := NewLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, []int](
		mockQueryHandler{err: store.Violation(store.ErrNotFound, "member 7 not found")},
		observable.WithQueryMetrics[mockQuery, []int](metrics),
		observable.WithQueryLogging[mockQuery, []int](logger),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).WithStatus(shell.StatusRejected).Assert())
	assert.True(t, logger.HasLog("info", shell.LogMsgQueryFailed))
	assert.False(t, logger.HasLog("error", shell.LogMsgQueryFailed))
}
