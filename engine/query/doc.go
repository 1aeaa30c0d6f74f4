// Package query implements the read side: lookups by id and filtered, paginated listings.
//
// Listings are ordered by identifier ascending. A skip beyond the last row yields an empty slice,
// never an error. Lookups by id return store.ErrNotFound for unknown ids.
//
// Reads run outside transactions. A Service created WithEventualConsistency marks every read so
// that engines with a configured replica may serve it from there.
package query
