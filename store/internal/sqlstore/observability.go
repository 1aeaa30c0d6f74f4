package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/library-lending-go/store"
)

const (
	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgRollbackFailed     = "failed to roll back transaction"
	logMsgSchemaFailed       = "schema statement failed"
	logMsgTxCommitted        = "store operation: transaction committed"
	logMsgTxRolledBack       = "store operation: transaction rolled back"
	logMsgSQLExecuted        = "executed sql for: "
	logAttrError             = "error"
	logAttrErrorKind         = "error_kind"
	logAttrQuery             = "query"
	logAttrKind              = "kind"
	logAttrEngine            = "engine"
	logAttrDurationMS        = "duration_ms"

	actionSelect = "select"
	actionCount  = "count"
	actionExists = "exists"
	actionInsert = "insert"
	actionUpdate = "update"
	actionDelete = "delete"
	actionSchema = "schema"

	operationTx   = "tx"
	operationRead = "read"

	spanNameTx   = "store.tx"
	spanNameRead = "store.read"

	spanAttrEngine     = "store.engine"
	spanAttrOperation  = "operation"
	spanAttrErrorType  = "error_type"
	spanAttrDurationMS = "duration_ms"

	metricTxDuration        = "store_tx_duration_seconds"
	metricReadDuration      = "store_read_duration_seconds"
	metricStatementDuration = "store_statement_duration_seconds"
	metricOperationErrors   = "store_operation_errors_total"
	metricTransientFailures = "store_transient_failures_total"

	statusSuccess = "success"
	statusError   = "error"
)

var errNoRow = errors.New("statement returned no row")

func statusOf(err error) string {
	if err != nil {
		return statusError
	}

	return statusSuccess
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

/***** Logging *****/

// logStatement logs SQL statements with execution time at debug level.
func (e *Engine) logStatement(ctx context.Context, action, query string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, query}

	if e.cfg.ContextualLogger != nil {
		e.cfg.ContextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
		return
	}

	if e.cfg.Logger != nil {
		e.cfg.Logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.cfg.ContextualLogger != nil {
		e.cfg.ContextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if e.cfg.Logger != nil {
		e.cfg.Logger.Info(msg, args...)
	}
}

func (e *Engine) logWarn(ctx context.Context, msg string, args ...any) {
	if e.cfg.ContextualLogger != nil {
		e.cfg.ContextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if e.cfg.Logger != nil {
		e.cfg.Logger.Warn(msg, args...)
	}
}

func (e *Engine) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if e.cfg.ContextualLogger != nil {
		e.cfg.ContextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if e.cfg.Logger != nil {
		e.cfg.Logger.Error(msg, allArgs...)
	}
}

// logOutcome logs a rolled back transaction. Business rule rejections are expected and logged at info level,
// everything else is an error.
func (e *Engine) logOutcome(ctx context.Context, msg string, err error, duration time.Duration) {
	kind := store.ErrorKind(err)
	args := []any{logAttrEngine, e.cfg.Name, logAttrErrorKind, kind, logAttrDurationMS, toMilliseconds(duration)}

	if kind == "other" {
		e.logError(ctx, msg, err, args...)
		return
	}

	e.logInfo(ctx, msg, append(args, logAttrError, err.Error())...)
}

/***** Metrics *****/

func (e *Engine) recordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if e.cfg.Metrics == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
		spanAttrEngine:    e.cfg.Name,
	}

	if contextual, ok := e.cfg.Metrics.(store.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	e.cfg.Metrics.RecordDuration(metric, duration, labels)
}

func (e *Engine) recordError(ctx context.Context, operation string, err error) {
	if e.cfg.Metrics == nil {
		return
	}

	kind := store.ErrorKind(err)
	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          statusError,
		spanAttrErrorType: kind,
		spanAttrEngine:    e.cfg.Name,
	}

	metric := metricOperationErrors
	if kind == "transient" {
		metric = metricTransientFailures
	}

	if contextual, ok := e.cfg.Metrics.(store.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	e.cfg.Metrics.IncrementCounter(metric, labels)
}

/***** Tracing *****/

func (e *Engine) startSpan(ctx context.Context, name, operation string) (context.Context, store.SpanContext) {
	if e.cfg.Tracing == nil {
		return ctx, nil
	}

	return e.cfg.Tracing.StartSpan(ctx, name, map[string]string{
		spanAttrOperation: operation,
		spanAttrEngine:    e.cfg.Name,
	})
}

func (e *Engine) finishSpan(span store.SpanContext, status, errorType string, duration time.Duration) {
	if e.cfg.Tracing == nil || span == nil {
		return
	}

	attrs := map[string]string{spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration))}
	if errorType != "" {
		attrs[spanAttrErrorType] = errorType
	}

	e.cfg.Tracing.FinishSpan(span, status, attrs)
}
