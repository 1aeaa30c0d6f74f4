// Package adapters provide database adapter implementations for the SQL entity stores.
//
// The adapter pattern lets the stores run on pgxpool.Pool, sql.DB and sqlx.DB through
// the common DBAdapter interface. Transactions are exposed through DBTx, so a store session
// issues the same statements whether or not it runs inside a transaction.
package adapters
