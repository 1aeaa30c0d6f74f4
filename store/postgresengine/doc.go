// Package postgresengine provides a PostgreSQL implementation of the library entity store.
//
// It supports three database adapters (pgx, sql.DB with lib/pq, sqlx) behind one Store type.
// Every InTx call runs in its own READ COMMITTED transaction with a bounded lock_timeout.
// Row locks (SELECT ... FOR UPDATE) and the table constraints created by EnsureSchema
// serialize competing checkouts and uniqueness checks. Lock timeouts, serialization failures
// and deadlocks surface as store.ErrTransient, so callers may retry them.
//
// Usage examples:
//
//	pool, _ := pgxpool.NewWithConfig(ctx, cfg)
//	s, _ := postgresengine.NewStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//	_ = s.EnsureSchema(ctx)
//
//	err := s.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
//		book, err := store.LoadLocked[store.Book](ctx, tx, bookID)
//		...
//	})
package postgresengine
