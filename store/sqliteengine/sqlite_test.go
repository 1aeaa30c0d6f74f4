package sqliteengine_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/sqliteengine"
)

var fixedDay = time.Date(2024, time.March, 4, 15, 30, 0, 0, time.UTC)

func openStore(t *testing.T) *sqliteengine.Store {
	t.Helper()

	s, err := sqliteengine.Open(
		filepath.Join(t.TempDir(), "library.db"),
		sqliteengine.WithClock(store.FixedClock{At: fixedDay}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func insert(t *testing.T, s *sqliteengine.Store, kind store.Kind, fields store.Fields) int64 {
	t.Helper()

	var id int64

	err := s.InTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		var err error
		id, err = tx.Insert(ctx, kind, fields)
		return err
	})
	require.NoError(t, err)

	return id
}

func Test_Store_InsertAndLoad(t *testing.T) {
	// setup
	s := openStore(t)
	ctx := context.Background()

	// arrange
	phone := "555-0100"
	member := store.Member{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: &phone, JoinDate: store.NewDate(2024, time.January, 2)}

	// act
	id := insert(t, s, store.KindMember, member.Fields())

	// assert
	var loaded store.Member
	err := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		var err error
		loaded, err = store.Load[store.Member](ctx, r, id)
		return err
	})
	require.NoError(t, err)
	member.ID = id
	assert.Equal(t, member, loaded)
}

func Test_Store_Get_NotFound(t *testing.T) {
	s := openStore(t)

	err := s.Read(context.Background(), func(ctx context.Context, r store.Reader) error {
		_, err := store.Load[store.Book](ctx, r, 99)
		return err
	})

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func Test_Store_Today_UsesInjectedClock(t *testing.T) {
	s := openStore(t)

	var today store.Date
	err := s.InTx(context.Background(), func(_ context.Context, tx store.Tx) error {
		today = tx.Today()
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", today.String())
}

func Test_Store_UniqueViolation_IsConflict(t *testing.T) {
	// setup
	s := openStore(t)
	insert(t, s, store.KindCategory, store.Category{Name: "Poetry"}.Fields())

	// act
	err := s.InTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := tx.Insert(ctx, store.KindCategory, store.Category{Name: "Poetry"}.Fields())
		return err
	})

	// assert
	assert.ErrorIs(t, err, store.ErrConflict)
}

func Test_Store_ForeignKeyViolation_IsInvalidReference(t *testing.T) {
	s := openStore(t)
	missing := int64(42)

	err := s.InTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := tx.Insert(ctx, store.KindBook, store.Book{Title: "T", ISBN: "1", CategoryID: &missing, CopiesAvailable: 1}.Fields())
		return err
	})

	assert.ErrorIs(t, err, store.ErrInvalidReference)
}

func Test_Store_CheckViolation_IsInvalidInput(t *testing.T) {
	s := openStore(t)

	err := s.InTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := tx.Insert(ctx, store.KindBook, store.Book{Title: "T", ISBN: "1", CopiesAvailable: -1}.Fields())
		return err
	})

	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func Test_Store_InTx_RollsBackOnError(t *testing.T) {
	// setup
	s := openStore(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	// act
	err := s.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.Insert(ctx, store.KindAuthor, store.Author{FirstName: "Jane", LastName: "Austen"}.Fields()); err != nil {
			return err
		}

		return errAbort
	})

	// assert
	assert.ErrorIs(t, err, errAbort)

	var count int64
	readErr := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		var err error
		count, err = r.Count(ctx, store.KindAuthor, store.All())
		return err
	})
	require.NoError(t, readErr)
	assert.Zero(t, count)
}

func Test_Store_Increment_GuardedDecrementStopsAtZero(t *testing.T) {
	// setup
	s := openStore(t)
	ctx := context.Background()
	bookID := insert(t, s, store.KindBook, store.Book{Title: "Dune", ISBN: "9780441013593", CopiesAvailable: 1}.Fields())
	guard := store.ByKey(store.KindBook, bookID).And(store.Gt(store.ColCopiesAvailable, 0))

	// act
	var first, second int64
	err := s.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		if first, err = tx.Increment(ctx, store.KindBook, store.ColCopiesAvailable, -1, guard); err != nil {
			return err
		}

		second, err = tx.Increment(ctx, store.KindBook, store.ColCopiesAvailable, -1, guard)

		return err
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Zero(t, second)
}

func Test_Store_Find_WindowAndOrder(t *testing.T) {
	// setup
	s := openStore(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D"} {
		insert(t, s, store.KindCategory, store.Category{Name: name}.Fields())
	}

	// act
	var page, beyond []store.Category
	err := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		var err error
		if page, err = store.Select[store.Category](ctx, r, store.All().Window(1, 2)); err != nil {
			return err
		}

		beyond, err = store.Select[store.Category](ctx, r, store.All().Window(10, 2))

		return err
	})

	// assert
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "B", page[0].Name)
	assert.Equal(t, "C", page[1].Name)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}

func Test_Store_DeleteCategory_ClearsBookReference(t *testing.T) {
	// setup
	s := openStore(t)
	ctx := context.Background()
	categoryID := insert(t, s, store.KindCategory, store.Category{Name: "Sci-Fi"}.Fields())
	bookID := insert(t, s, store.KindBook, store.Book{Title: "Dune", ISBN: "1", CategoryID: &categoryID, CopiesAvailable: 1}.Fields())

	// act
	err := s.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.Delete(ctx, store.KindCategory, store.ByKey(store.KindCategory, categoryID))
		return err
	})

	// assert
	require.NoError(t, err)

	var book store.Book
	readErr := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		var err error
		book, err = store.Load[store.Book](ctx, r, bookID)
		return err
	})
	require.NoError(t, readErr)
	assert.Nil(t, book.CategoryID)
}

func Test_Store_DeleteAuthor_CascadesLinks(t *testing.T) {
	// setup
	s := openStore(t)
	ctx := context.Background()
	bookID := insert(t, s, store.KindBook, store.Book{Title: "Emma", ISBN: "2", CopiesAvailable: 1}.Fields())
	authorID := insert(t, s, store.KindAuthor, store.Author{FirstName: "Jane", LastName: "Austen"}.Fields())
	insert(t, s, store.KindBookAuthor, store.BookAuthor{BookID: bookID, AuthorID: authorID}.Fields())

	// act
	err := s.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := tx.Delete(ctx, store.KindAuthor, store.ByKey(store.KindAuthor, authorID))
		return err
	})

	// assert
	require.NoError(t, err)

	var exists bool
	readErr := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		var err error
		exists, err = r.Exists(ctx, store.KindBookAuthor, store.Where(store.Eq(store.ColBookID, bookID)))
		return err
	})
	require.NoError(t, readErr)
	assert.False(t, exists)
}

func Test_Store_LoadLocked_NotFound(t *testing.T) {
	s := openStore(t)

	err := s.InTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := store.LoadLocked[store.Loan](ctx, tx, 7)
		return err
	})

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func Test_Store_CanceledContext_IsTransient(t *testing.T) {
	s := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.InTx(ctx, func(context.Context, store.Tx) error { return nil })

	assert.ErrorIs(t, err, store.ErrTransient)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Open_RejectsEmptyPath(t *testing.T) {
	_, err := sqliteengine.Open("")

	assert.ErrorIs(t, err, sqliteengine.ErrEmptyPath)
}
