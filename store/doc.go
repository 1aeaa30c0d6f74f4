// Package store provides the engine-agnostic types and contracts of the library entity store.
//
// This package defines the entities (members, categories, books, authors, book-author links and loans),
// the transaction-scoped read/write contracts every storage engine implements, the filter type used
// to express predicates, pagination and row locking, and the error taxonomy shared by all layers.
//
// Storage engines live in sub-packages:
//   - postgresengine: PostgreSQL over pgx, database/sql (lib/pq) or sqlx
//   - sqliteengine: embedded SQLite via mattn/go-sqlite3
//
// All operations that compose one business action run inside a single transaction:
//
//	err := engine.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
//		book, err := store.LoadLocked[store.Book](ctx, tx, bookID)
//		if err != nil {
//			return err
//		}
//
//		_, err = tx.Increment(ctx, store.KindBook, store.ColCopiesAvailable, -1,
//			store.ByKey(store.KindBook, book.ID).And(store.Gt(store.ColCopiesAvailable, 0)))
//
//		return err
//	})
//
// The store guarantees atomicity and durability of whatever a transaction writes.
// Cross-entity business rules are enforced by the callers inside the same transaction.
package store
