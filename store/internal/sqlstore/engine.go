// Package sqlstore implements the store.Tx and store.Reader contracts on top of a DBAdapter.
// The Postgres and SQLite engines differ only in driver, dialect, error classification and
// per-transaction setup, which they pass in through Config.
package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/internal/adapters"
	"github.com/AntonStoeckl/library-lending-go/store/internal/sqlbuilder"
)

// ClassifyFunc maps a driver error to one of the store outcome sentinels, or returns nil if the error
// is not a known business or concurrency failure.
type ClassifyFunc func(err error) error

// PrepareTxFunc runs right after BEGIN, e.g. to set lock timeouts.
type PrepareTxFunc func(ctx context.Context, tx adapters.DBTx) error

// Config bundles everything an Engine needs.
type Config struct {
	Name             string
	DB               adapters.DBAdapter
	Builder          sqlbuilder.Builder
	Classify         ClassifyFunc
	PrepareTx        PrepareTxFunc
	Clock            store.Clock
	Logger           store.Logger
	ContextualLogger store.ContextualLogger
	Metrics          store.MetricsCollector
	Tracing          store.TracingCollector
}

// Engine runs store sessions against a SQL database.
type Engine struct {
	cfg Config
}

// New creates an Engine. DB and Clock are required.
func New(cfg Config) (*Engine, error) {
	if cfg.DB == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	if cfg.Clock == nil {
		return nil, store.ErrNilClock
	}

	if cfg.Classify == nil {
		cfg.Classify = func(error) error { return nil }
	}

	return &Engine{cfg: cfg}, nil
}

// InTx runs fn inside one transaction. The transaction commits if fn returns nil and rolls back otherwise.
func (e *Engine) InTx(ctx context.Context, fn store.TxFunc) error {
	ctx = store.WithStrongConsistency(ctx)
	ctx, span := e.startSpan(ctx, spanNameTx, operationTx)
	start := time.Now()

	err := e.runTx(ctx, fn)
	duration := time.Since(start)

	if err != nil {
		e.finishSpan(span, statusError, store.ErrorKind(err), duration)
		e.recordDuration(ctx, metricTxDuration, duration, operationTx, statusError)
		e.recordError(ctx, operationTx, err)
		e.logOutcome(ctx, logMsgTxRolledBack, err, duration)

		return err
	}

	e.finishSpan(span, statusSuccess, "", duration)
	e.recordDuration(ctx, metricTxDuration, duration, operationTx, statusSuccess)
	e.logInfo(ctx, logMsgTxCommitted, logAttrEngine, e.cfg.Name, logAttrDurationMS, toMilliseconds(duration))

	return nil
}

func (e *Engine) runTx(ctx context.Context, fn store.TxFunc) error {
	tx, err := e.cfg.DB.BeginTx(ctx)
	if err != nil {
		return e.classify(ctx, err, store.ErrBeginningTxFailed)
	}

	if e.cfg.PrepareTx != nil {
		if err = e.cfg.PrepareTx(ctx, tx); err != nil {
			e.rollback(ctx, tx)
			return e.classify(ctx, err, store.ErrExecutingStatementFailed)
		}
	}

	if err = fn(ctx, e.newSession(tx)); err != nil {
		e.rollback(ctx, tx)
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.classify(ctx, err, store.ErrCommittingTxFailed)
	}

	return nil
}

// rollback must succeed even if ctx is already canceled, otherwise pgx leaks the connection.
func (e *Engine) rollback(ctx context.Context, tx adapters.DBTx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		e.logWarn(ctx, logMsgRollbackFailed, logAttrError, err.Error())
	}
}

// Read runs fn outside a transaction. With store.WithEventualConsistency the reads may be served by a replica.
func (e *Engine) Read(ctx context.Context, fn store.ReadFunc) error {
	ctx, span := e.startSpan(ctx, spanNameRead, operationRead)
	start := time.Now()

	err := fn(ctx, e.newSession(e.cfg.DB))
	duration := time.Since(start)

	if err != nil {
		e.finishSpan(span, statusError, store.ErrorKind(err), duration)
		e.recordDuration(ctx, metricReadDuration, duration, operationRead, statusError)
		e.recordError(ctx, operationRead, err)

		return err
	}

	e.finishSpan(span, statusSuccess, "", duration)
	e.recordDuration(ctx, metricReadDuration, duration, operationRead, statusSuccess)

	return nil
}

// Ping checks that the database is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.cfg.DB.Ping(ctx); err != nil {
		return e.classify(ctx, err, store.ErrUnavailable)
	}

	return nil
}

// ExecScript runs DDL statements one by one outside a transaction.
func (e *Engine) ExecScript(ctx context.Context, statements []string) error {
	for _, statement := range statements {
		start := time.Now()
		_, err := e.cfg.DB.Exec(ctx, statement)
		e.logStatement(ctx, actionSchema, statement, time.Since(start))

		if err != nil {
			e.logError(ctx, logMsgSchemaFailed, err, logAttrQuery, statement)
			return errors.Join(store.ErrExecutingStatementFailed, err)
		}
	}

	return nil
}

// Today returns the current date according to the engine clock.
func (e *Engine) Today() store.Date {
	return store.Today(e.cfg.Clock)
}

// classify turns a driver error into a store error. Errors caused by an expired or canceled context
// are transient, so the caller may retry with a fresh deadline.
func (e *Engine) classify(ctx context.Context, err error, fallback error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(store.ErrTransient, ctxErr, err)
	}

	if outcome := e.cfg.Classify(err); outcome != nil {
		return errors.Join(outcome, err)
	}

	return errors.Join(fallback, err)
}
