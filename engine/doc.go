// Package engine wires the lending engine together: the command handlers of every entity, the loan
// lifecycle, and the query service, each wrapped with logging, metrics and tracing.
//
// A Library is safe for concurrent use. It holds no mutable state of its own; the store is the only
// shared resource.
//
// Example usage:
//
//	s, err := sqliteengine.Open("library.db")
//	lib, err := engine.NewLibrary(s, engine.WithContextualLogger(logger))
//	loan, err := lib.CheckoutBook(ctx, loans.BuildCheckoutCommand(memberID, bookID, dueDate))
package engine
