//go:build integration

package postgrestest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AntonStoeckl/library-lending-go/config"
	"github.com/AntonStoeckl/library-lending-go/store/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/testutil/sqlitetest"
)

const (
	image        = "postgres:17-alpine"
	truncateSQL  = "TRUNCATE TABLE loans, book_authors, books, authors, categories, members RESTART IDENTITY CASCADE"
	startTimeout = 60 * time.Second
)

// Container is a running PostgreSQL shared by the tests of one package.
type Container struct {
	container *postgres.PostgresContainer
	DSN       string
}

// Start runs a PostgreSQL container. Call it from TestMain and Terminate the result afterwards.
func Start(ctx context.Context) (*Container, error) {
	container, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase("library"),
		postgres.WithUsername("librarian"),
		postgres.WithPassword("librarian"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startTimeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("reading connection string: %w", err)
	}

	return &Container{container: container, DSN: dsn}, nil
}

// Terminate stops and removes the container.
func (c *Container) Terminate(ctx context.Context) error {
	return c.container.Terminate(ctx)
}

// Run is a TestMain body: it starts a container, stores it in *target and runs the tests.
func Run(m *testing.M, target **Container) int {
	ctx := context.Background()

	c, err := Start(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	defer func() { _ = c.Terminate(ctx) }()

	*target = c

	return m.Run()
}

// NewStore opens a store on the container with the adapter named by ADAPTER_TYPE, creates the
// schema and empties every table. The store uses sqlitetest.Clock so both engines agree on today.
func NewStore(t testing.TB, c *Container, options ...postgresengine.Option) *postgresengine.Store {
	t.Helper()

	ctx := context.Background()
	cfg := config.Config{
		DSN:              c.DSN,
		MaxConns:         20,
		MinConns:         2,
		LockTimeout:      2 * time.Second,
		OperationTimeout: 10 * time.Second,
	}

	options = append([]postgresengine.Option{
		postgresengine.WithClock(sqlitetest.Clock),
		postgresengine.WithLockTimeout(cfg.LockTimeout),
	}, options...)

	var s *postgresengine.Store
	var exec func(ctx context.Context, query string) error

	switch adapter := strings.ToLower(os.Getenv("ADAPTER_TYPE")); adapter {
	case string(config.DriverPGX), "pgxpool", "":
		pool, err := config.NewPGXPool(ctx, cfg, c.DSN)
		require.NoError(t, err)
		t.Cleanup(pool.Close)

		s, err = postgresengine.NewStoreFromPGXPool(pool, options...)
		require.NoError(t, err)

		exec = pgxExec(pool)

	case string(config.DriverSQLDB):
		db, err := config.NewPostgresSQLDB(ctx, cfg, c.DSN)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		s, err = postgresengine.NewStoreFromSQLDB(db, options...)
		require.NoError(t, err)

		exec = sqlExec(db)

	case string(config.DriverSQLX):
		db, err := config.NewPostgresSQLX(ctx, cfg, c.DSN)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		s, err = postgresengine.NewStoreFromSQLX(db, options...)
		require.NoError(t, err)

		exec = sqlxExec(db)

	default:
		t.Fatalf("unsupported ADAPTER_TYPE %q", adapter)
	}

	require.NoError(t, s.EnsureSchema(ctx), "creating the schema")
	require.NoError(t, exec(ctx, truncateSQL), "emptying the tables")

	return s
}

func pgxExec(pool *pgxpool.Pool) func(ctx context.Context, query string) error {
	return func(ctx context.Context, query string) error {
		_, err := pool.Exec(ctx, query)
		return err
	}
}

func sqlExec(db *sql.DB) func(ctx context.Context, query string) error {
	return func(ctx context.Context, query string) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}

func sqlxExec(db *sqlx.DB) func(ctx context.Context, query string) error {
	return func(ctx context.Context, query string) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}
