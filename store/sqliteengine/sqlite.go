package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // driver import

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/internal/adapters"
	"github.com/AntonStoeckl/library-lending-go/store/internal/sqlbuilder"
	"github.com/AntonStoeckl/library-lending-go/store/internal/sqlstore"
)

const (
	engineName         = "sqlite"
	driverName         = "sqlite3"
	defaultBusyTimeout = 5 * time.Second
	dsnFormat          = "file:%s?_busy_timeout=%d&_foreign_keys=1&_txlock=immediate&_journal_mode=WAL"
)

// ErrEmptyPath is returned by Open when no database file is given.
var ErrEmptyPath = errors.New("database path must not be empty")

// Store is the SQLite entity store.
type Store struct {
	db               *sql.DB
	engine           *sqlstore.Engine
	clock            store.Clock
	busyTimeout      time.Duration
	logger           store.Logger
	contextualLogger store.ContextualLogger
	metricsCollector store.MetricsCollector
	tracingCollector store.TracingCollector
}

// Open opens (or creates) the database file at path and ensures the schema exists.
func Open(path string, options ...Option) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	s := &Store{
		clock:       store.SystemClock{},
		busyTimeout: defaultBusyTimeout,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driverName, fmt.Sprintf(dsnFormat, path, s.busyTimeout.Milliseconds()))
	if err != nil {
		return nil, errors.Join(store.ErrUnavailable, err)
	}

	s.db = db

	engine, err := sqlstore.New(sqlstore.Config{
		Name:             engineName,
		DB:               adapters.NewSQLAdapter(db),
		Builder:          sqlbuilder.New(sqlbuilder.DialectSQLite),
		Classify:         classify,
		Clock:            s.clock,
		Logger:           s.logger,
		ContextualLogger: s.contextualLogger,
		Metrics:          s.metricsCollector,
		Tracing:          s.tracingCollector,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s.engine = engine

	if err = s.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// InTx runs fn in one immediate transaction.
func (s *Store) InTx(ctx context.Context, fn store.TxFunc) error {
	return s.engine.InTx(ctx, fn)
}

// Read runs fn without a transaction.
func (s *Store) Read(ctx context.Context, fn store.ReadFunc) error {
	return s.engine.Read(ctx, fn)
}

// Ping checks that the database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.engine.Ping(ctx)
}

// EnsureSchema creates the tables, constraints and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.engine.ExecScript(ctx, schemaStatements)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
