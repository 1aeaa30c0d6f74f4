package rules

import (
	"context"
	"strings"

	"github.com/AntonStoeckl/library-lending-go/store"
)

// Unique describes a column whose values must not repeat across rows of one kind.
type Unique struct {
	Kind   store.Kind
	Column string
	Reason string
}

var (
	// UniqueEmail guards member emails.
	UniqueEmail = Unique{Kind: store.KindMember, Column: store.ColEmail, Reason: "email already registered"}

	// UniqueISBN guards book ISBNs.
	UniqueISBN = Unique{Kind: store.KindBook, Column: store.ColISBN, Reason: "isbn already exists"}

	// UniqueCategoryName guards category names.
	UniqueCategoryName = Unique{Kind: store.KindCategory, Column: store.ColCategoryName, Reason: "category name already exists"}
)

// EnsureAvailable returns ErrConflict if another row already holds value.
// exceptID excludes the row being updated, so keeping one's own value is never a conflict. Pass 0 on create.
func (u Unique) EnsureAvailable(ctx context.Context, r store.Reader, value any, exceptID int64) error {
	filter := store.Where(store.Eq(u.Column, value))
	if exceptID != 0 {
		filter = filter.And(store.NotEq(u.Kind.Key(), exceptID))
	}

	taken, err := r.Exists(ctx, u.Kind, filter)
	if err != nil {
		return err
	}

	if taken {
		return store.Violation(store.ErrConflict, "%s", u.Reason)
	}

	return nil
}

// EnsureExists returns ErrInvalidReference if no row of kind has the given id.
// It is used for foreign keys supplied by the caller, as opposed to the entity being addressed.
func EnsureExists(ctx context.Context, r store.Reader, kind store.Kind, id int64) error {
	found, err := r.Exists(ctx, kind, store.ByKey(kind, id))
	if err != nil {
		return err
	}

	if !found {
		return store.Violation(store.ErrInvalidReference, "%s %d does not exist", kind.Name(), id)
	}

	return nil
}

// EnsureOptionalExists is EnsureExists for nullable references. A nil id is always valid.
func EnsureOptionalExists(ctx context.Context, r store.Reader, kind store.Kind, id *int64) error {
	if id == nil {
		return nil
	}

	return EnsureExists(ctx, r, kind, *id)
}

// EnsureNoActiveLoans guards the deletion of a member or book: any unreturned loan referencing it is a conflict.
// Returned loans do not block.
func EnsureNoActiveLoans(ctx context.Context, r store.Reader, kind store.Kind, id int64) error {
	active, err := r.Exists(ctx, store.KindLoan, ActiveLoansOf(kind, id))
	if err != nil {
		return err
	}

	if active {
		return store.Violation(store.ErrConflict, "cannot delete %s with active loans", strings.ToLower(kind.Name()))
	}

	return nil
}

// HasActiveLoanFor reports whether the member currently has the book on loan.
func HasActiveLoanFor(ctx context.Context, r store.Reader, memberID, bookID int64) (bool, error) {
	return r.Exists(ctx, store.KindLoan, ActiveLoansOf(store.KindMember, memberID).And(store.Eq(store.ColBookID, bookID)))
}

// ActiveLoansOf selects the unreturned loans of a member or a book.
func ActiveLoansOf(kind store.Kind, id int64) store.Filter {
	return store.Where(store.Eq(kind.Key(), id), store.IsNull(store.ColReturnDate))
}
