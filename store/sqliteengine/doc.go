// Package sqliteengine provides an embedded SQLite implementation of the library entity store.
//
// Transactions start with BEGIN IMMEDIATE, so writers are serialized by the database file lock
// and a transaction never reads a value another writer is about to change. A writer that cannot
// get the lock within the busy timeout fails with store.ErrTransient.
//
// The engine is meant for single-node deployments and for tests:
//
//	s, err := sqliteengine.Open(filepath.Join(t.TempDir(), "library.db"))
package sqliteengine
