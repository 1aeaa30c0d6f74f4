// Package loans implements the loan lifecycle: checking a book out to a member and returning it.
//
// A loan is created active and transitions exactly once to returned. Both transitions adjust the
// book's shelf count in the same transaction as the loan row, so copies_available always equals the
// initial stock minus the active loans.
//
// The handlers follow a load-decide-write pattern: they lock and load the book or loan, hand what
// they read to a pure Decide function holding the business rules, and write only what it allows.
// Concurrent checkouts of the same book are serialized by the row lock on the book, and the
// decrement itself is guarded by copies_available > 0 so the counter cannot go negative even
// on engines without row locks.
package loans
