package sqlitetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/store"
)

func inTx(t *testing.T, s txStore, fn store.TxFunc) {
	t.Helper()

	require.NoError(t, s.InTx(context.Background(), fn))
}

type txStore interface {
	InTx(ctx context.Context, fn store.TxFunc) error
}

type readStore interface {
	Read(ctx context.Context, fn store.ReadFunc) error
}

// GivenMember inserts a member with the given email.
func GivenMember(t *testing.T, s txStore, email string) store.Member {
	t.Helper()

	member := store.Member{FirstName: "Grace", LastName: "Hopper", Email: email, JoinDate: Today}

	inTx(t, s, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.Insert(ctx, store.KindMember, member.Fields())
		member.ID = id

		return err
	})

	return member
}

// GivenCategory inserts a category.
func GivenCategory(t *testing.T, s txStore, name string) store.Category {
	t.Helper()

	category := store.Category{Name: name}

	inTx(t, s, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.Insert(ctx, store.KindCategory, category.Fields())
		category.ID = id

		return err
	})

	return category
}

// GivenBook inserts a book with the given ISBN and number of copies on the shelf.
func GivenBook(t *testing.T, s txStore, isbn string, copies int) store.Book {
	t.Helper()

	book := store.Book{Title: fmt.Sprintf("Book %s", isbn), ISBN: isbn, CopiesAvailable: copies}

	inTx(t, s, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.Insert(ctx, store.KindBook, book.Fields())
		book.ID = id

		return err
	})

	return book
}

// GivenAuthor inserts an author.
func GivenAuthor(t *testing.T, s txStore, lastName string) store.Author {
	t.Helper()

	author := store.Author{FirstName: "Ursula", LastName: lastName}

	inTx(t, s, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.Insert(ctx, store.KindAuthor, author.Fields())
		author.ID = id

		return err
	})

	return author
}

// GivenLink links a book to an author.
func GivenLink(t *testing.T, s txStore, bookID, authorID int64) {
	t.Helper()

	inTx(t, s, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.Insert(ctx, store.KindBookAuthor, store.BookAuthor{BookID: bookID, AuthorID: authorID}.Fields())
		return err
	})
}

// GivenActiveLoan lends a copy of the book to the member, taking it off the shelf.
func GivenActiveLoan(t *testing.T, s txStore, memberID, bookID int64) store.Loan {
	t.Helper()

	loan := store.Loan{MemberID: memberID, BookID: bookID, LoanDate: Today, DueDate: store.DateOf(Today.AddDate(0, 0, 14))}

	inTx(t, s, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.Insert(ctx, store.KindLoan, loan.Fields())
		if err != nil {
			return err
		}

		loan.ID = id
		_, err = tx.Increment(ctx, store.KindBook, store.ColCopiesAvailable, -1, store.ByKey(store.KindBook, bookID))

		return err
	})

	return loan
}

// GivenReturnedLoan records a loan of the book by the member that was already returned.
func GivenReturnedLoan(t *testing.T, s txStore, memberID, bookID int64) store.Loan {
	t.Helper()

	returned := store.DateOf(Today.Add(-24 * time.Hour))
	loan := store.Loan{
		MemberID:   memberID,
		BookID:     bookID,
		LoanDate:   store.DateOf(Today.AddDate(0, 0, -7)),
		DueDate:    Today,
		ReturnDate: &returned,
	}

	inTx(t, s, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.Insert(ctx, store.KindLoan, loan.Fields())
		loan.ID = id

		return err
	})

	return loan
}

// CopiesOf reads the current shelf count of a book.
func CopiesOf(t *testing.T, s readStore, bookID int64) int {
	t.Helper()

	var book store.Book

	err := s.Read(context.Background(), func(ctx context.Context, r store.Reader) error {
		return r.Get(ctx, &book, bookID)
	})
	require.NoError(t, err)

	return book.CopiesAvailable
}

// CountOf returns the number of rows of kind matching filter.
func CountOf(t *testing.T, s readStore, kind store.Kind, filter store.Filter) int64 {
	t.Helper()

	var n int64

	err := s.Read(context.Background(), func(ctx context.Context, r store.Reader) error {
		var err error
		n, err = r.Count(ctx, kind, filter)

		return err
	})
	require.NoError(t, err)

	return n
}
