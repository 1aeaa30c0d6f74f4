package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/internal/adapters"
	"github.com/AntonStoeckl/library-lending-go/store/internal/sqlbuilder"
	"github.com/AntonStoeckl/library-lending-go/store/internal/sqlstore"
)

const (
	engineName         = "postgres"
	defaultLockTimeout = 2 * time.Second
	setLockTimeoutSQL  = "SET LOCAL lock_timeout = '%dms'"
)

// ErrNegativeLockTimeout is returned by WithLockTimeout for negative durations.
var ErrNegativeLockTimeout = errors.New("lock timeout must not be negative")

// Store is the PostgreSQL entity store.
type Store struct {
	db               adapters.DBAdapter
	engine           *sqlstore.Engine
	clock            store.Clock
	lockTimeout      time.Duration
	logger           store.Logger
	contextualLogger store.ContextualLogger
	metricsCollector store.MetricsCollector
	tracingCollector store.TracingCollector
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options)
}

// NewStoreFromPGXPoolWithReplica creates a new Store that serves eventually consistent reads from replica.
// Transactions always use the primary.
func NewStoreFromPGXPoolWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Store, error) {
	if primary == nil || replica == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(primary, replica), options)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB (lib/pq driver) with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, store.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options)
}

func newStore(db adapters.DBAdapter, options []Option) (*Store, error) {
	s := &Store{
		db:          db,
		clock:       store.SystemClock{},
		lockTimeout: defaultLockTimeout,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	engine, err := sqlstore.New(sqlstore.Config{
		Name:             engineName,
		DB:               db,
		Builder:          sqlbuilder.New(sqlbuilder.DialectPostgres),
		Classify:         classify,
		PrepareTx:        s.prepareTx,
		Clock:            s.clock,
		Logger:           s.logger,
		ContextualLogger: s.contextualLogger,
		Metrics:          s.metricsCollector,
		Tracing:          s.tracingCollector,
	})
	if err != nil {
		return nil, err
	}

	s.engine = engine

	return s, nil
}

// prepareTx sets the per-transaction lock timeout.
func (s *Store) prepareTx(ctx context.Context, tx adapters.DBTx) error {
	if s.lockTimeout == 0 {
		return nil
	}

	_, err := tx.Exec(ctx, fmt.Sprintf(setLockTimeoutSQL, s.lockTimeout.Milliseconds()))

	return err
}

// InTx runs fn in one transaction on the primary.
func (s *Store) InTx(ctx context.Context, fn store.TxFunc) error {
	return s.engine.InTx(ctx, fn)
}

// Read runs fn without a transaction.
func (s *Store) Read(ctx context.Context, fn store.ReadFunc) error {
	return s.engine.Read(ctx, fn)
}

// Ping checks that the primary (and the replica, if any) is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.engine.Ping(ctx)
}

// EnsureSchema creates the tables, constraints and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.engine.ExecScript(ctx, schemaStatements)
}
