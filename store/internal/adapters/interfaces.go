package adapters

import (
	"context"
	"errors"
)

// ErrLastInsertIDUnsupported is returned by drivers that only report identifiers through RETURNING.
var ErrLastInsertIDUnsupported = errors.New("last insert id is not supported by this driver")

// Queryer is the statement surface shared by connections and transactions.
type Queryer interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the entity stores.
type DBAdapter interface {
	Queryer
	BeginTx(ctx context.Context) (DBTx, error)
	Ping(ctx context.Context) error
}

// DBTx is an open transaction.
type DBTx interface {
	Queryer
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
	LastInsertID() (int64, error)
}
