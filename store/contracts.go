package store

import (
	"context"
)

// Reader is the read side of a store session.
type Reader interface {
	// Get loads the row with the given identifier into dest. It returns ErrNotFound if there is none.
	Get(ctx context.Context, dest Record, id int64) error

	// Find calls each once per matching row in the natural order of kind.
	Find(ctx context.Context, kind Kind, filter Filter, each func(scan ScanFunc) error) error

	// Count returns the number of matching rows. Windows are ignored.
	Count(ctx context.Context, kind Kind, filter Filter) (int64, error)

	// Exists reports whether at least one row matches.
	Exists(ctx context.Context, kind Kind, filter Filter) (bool, error)
}

// Tx is a store session bound to one transaction. Everything a TxFunc writes
// becomes visible atomically when the function returns nil, or not at all.
type Tx interface {
	Reader

	// Insert writes a new row and returns its store-assigned identifier (0 for kinds without one).
	Insert(ctx context.Context, kind Kind, fields Fields) (int64, error)

	// Update overwrites fields on all matching rows and returns how many were changed.
	Update(ctx context.Context, kind Kind, filter Filter, fields Fields) (int64, error)

	// Increment adds delta to an integer column on all matching rows and returns how many were changed.
	// Combined with a guard condition in the filter this is a conditional atomic update.
	Increment(ctx context.Context, kind Kind, column string, delta int64, filter Filter) (int64, error)

	// Delete removes all matching rows and returns how many were removed.
	Delete(ctx context.Context, kind Kind, filter Filter) (int64, error)

	// Today is the current date according to the store's clock.
	Today() Date
}

// TxFunc is a unit of work executed inside one transaction.
type TxFunc func(ctx context.Context, tx Tx) error

// ReadFunc is a unit of read-only work. It runs without a transaction.
type ReadFunc func(ctx context.Context, r Reader) error

// entity constrains the generic helpers to pointers of entity types.
type entity[E any] interface {
	*E
	Record
}

// Load returns the entity with the given identifier or ErrNotFound.
func Load[E any, P entity[E]](ctx context.Context, r Reader, id int64) (E, error) {
	var e E

	if err := r.Get(ctx, P(&e), id); err != nil {
		return e, err
	}

	return e, nil
}

// LoadLocked loads the entity and holds a row lock on it until the transaction ends.
func LoadLocked[E any, P entity[E]](ctx context.Context, tx Tx, id int64) (E, error) {
	var e E
	kind := P(&e).Kind()
	found := false

	err := tx.Find(ctx, kind, ByKey(kind, id).Locked(), func(scan ScanFunc) error {
		found = true
		return P(&e).ScanRow(scan)
	})
	if err != nil {
		return e, err
	}

	if !found {
		return e, Violation(ErrNotFound, "%s %d not found", kind.Name(), id)
	}

	return e, nil
}

// Select returns all matching entities. The result is never nil.
func Select[E any, P entity[E]](ctx context.Context, r Reader, filter Filter) ([]E, error) {
	var probe E
	result := make([]E, 0)

	err := r.Find(ctx, P(&probe).Kind(), filter, func(scan ScanFunc) error {
		var e E
		if err := P(&e).ScanRow(scan); err != nil {
			return err
		}

		result = append(result, e)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
