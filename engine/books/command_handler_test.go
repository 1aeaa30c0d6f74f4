package books_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/engine/books"
	"github.com/AntonStoeckl/library-lending-go/store"
	. "github.com/AntonStoeckl/library-lending-go/testutil/sqlitetest" //nolint:revive
)

func Test_CommandHandler_Create_DefaultsToOneCopy(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// act
	book, _, err := handler.Create(context.Background(), books.CreateCommand{Title: "The Dispossessed", ISBN: "978-0061054884"})

	// assert
	require.NoError(t, err)
	assert.Positive(t, book.ID)
	assert.Equal(t, 1, book.CopiesAvailable)
	assert.Equal(t, 1, CopiesOf(t, s, book.ID))
}

func Test_CommandHandler_Create_WithCategory(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	category := GivenCategory(t, s, "Fiction")
	copies := 3
	year := 1974

	// act
	book, _, err := handler.Create(context.Background(), books.CreateCommand{
		Title:           "The Dispossessed",
		ISBN:            "978-0061054884",
		PublishedYear:   &year,
		CategoryID:      &category.ID,
		CopiesAvailable: &copies,
	})

	// assert
	require.NoError(t, err)
	require.NotNil(t, book.CategoryID)
	assert.Equal(t, category.ID, *book.CategoryID)
	assert.Equal(t, 3, CopiesOf(t, s, book.ID))
}

func Test_CommandHandler_Create_Rejections(t *testing.T) {
	missingCategory := int64(404)
	negative := -1

	testCases := []struct {
		name        string
		command     books.CreateCommand
		expectedErr error
	}{
		{
			name:        "duplicate isbn",
			command:     books.CreateCommand{Title: "Copycat", ISBN: "978-0061054884"},
			expectedErr: store.ErrConflict,
		},
		{
			name:        "unknown category",
			command:     books.CreateCommand{Title: "Orphan", ISBN: "978-1111111111", CategoryID: &missingCategory},
			expectedErr: store.ErrInvalidReference,
		},
		{
			name:        "negative copies",
			command:     books.CreateCommand{Title: "Debt", ISBN: "978-2222222222", CopiesAvailable: &negative},
			expectedErr: store.ErrInvalidInput,
		},
		{
			name:        "blank title",
			command:     books.CreateCommand{Title: " ", ISBN: "978-3333333333"},
			expectedErr: store.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			s := NewStore(t)
			handler := books.NewCommandHandler(s)

			// arrange
			GivenBook(t, s, "978-0061054884", 1)

			// act
			_, _, err := handler.Create(context.Background(), tc.command)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.EqualValues(t, 1, CountOf(t, s, store.KindBook, store.All()), "no book should be written")
		})
	}
}

func Test_CommandHandler_Update_SetsCopiesExplicitly(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	book := GivenBook(t, s, "978-0061054884", 1)

	// act
	updated, _, err := handler.Update(context.Background(), books.UpdateCommand{
		BookID: book.ID,
		Patch:  store.BookPatch{CopiesAvailable: store.Some(5)},
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, 5, updated.CopiesAvailable)
	assert.Equal(t, 5, CopiesOf(t, s, book.ID))
}

func Test_CommandHandler_Update_NegativeCopies_IsInvalidInput(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	book := GivenBook(t, s, "978-0061054884", 1)

	// act
	_, _, err := handler.Update(context.Background(), books.UpdateCommand{
		BookID: book.ID,
		Patch:  store.BookPatch{CopiesAvailable: store.Some(-3)},
	})

	// assert
	assert.ErrorIs(t, err, store.ErrInvalidInput)
	assert.Equal(t, 1, CopiesOf(t, s, book.ID))
}

func Test_CommandHandler_Update_ClearsCategory(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	category := GivenCategory(t, s, "Fiction")
	book := GivenBook(t, s, "978-0061054884", 1)
	_, _, err := handler.Update(context.Background(), books.UpdateCommand{
		BookID: book.ID,
		Patch:  store.BookPatch{CategoryID: store.Some(&category.ID)},
	})
	require.NoError(t, err)

	// act
	updated, _, err := handler.Update(context.Background(), books.UpdateCommand{
		BookID: book.ID,
		Patch:  store.BookPatch{CategoryID: store.Some[*int64](nil)},
	})

	// assert
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
	assert.EqualValues(t, 1, CountOf(t, s, store.KindBook, store.Where(store.IsNull(store.ColCategoryID))))
}

func Test_CommandHandler_Update_IsbnTakenByOther_IsConflict(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	GivenBook(t, s, "978-0061054884", 1)
	other := GivenBook(t, s, "978-0441478125", 1)

	// act
	_, _, err := handler.Update(context.Background(), books.UpdateCommand{
		BookID: other.ID,
		Patch:  store.BookPatch{ISBN: store.Some("978-0061054884")},
	})

	// assert
	assert.ErrorIs(t, err, store.ErrConflict)
}

func Test_CommandHandler_Delete_WithActiveLoan_IsConflict(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	member := GivenMember(t, s, "grace@example.com")
	book := GivenBook(t, s, "978-0061054884", 2)
	GivenActiveLoan(t, s, member.ID, book.ID)

	// act
	_, _, err := handler.Delete(context.Background(), books.DeleteCommand{BookID: book.ID})

	// assert
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.EqualValues(t, 1, CountOf(t, s, store.KindBook, store.All()))
}

func Test_CommandHandler_Delete_WithOnlyReturnedLoans_Succeeds(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	member := GivenMember(t, s, "grace@example.com")
	book := GivenBook(t, s, "978-0061054884", 1)
	GivenReturnedLoan(t, s, member.ID, book.ID)

	// act
	_, _, err := handler.Delete(context.Background(), books.DeleteCommand{BookID: book.ID})

	// assert
	require.NoError(t, err)
	assert.Zero(t, CountOf(t, s, store.KindBook, store.All()))
}

func Test_CommandHandler_LinkAuthor_Twice_IsIdempotent(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	book := GivenBook(t, s, "978-0061054884", 1)
	author := GivenAuthor(t, s, "Le Guin")
	command := books.LinkAuthorCommand{BookID: book.ID, AuthorID: author.ID}

	// act
	_, first, err1 := handler.LinkAuthor(context.Background(), command)
	_, second, err2 := handler.LinkAuthor(context.Background(), command)

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.False(t, first.Idempotent)
	assert.True(t, second.Idempotent)
	assert.EqualValues(t, 1, CountOf(t, s, store.KindBookAuthor, store.All()))
}

func Test_CommandHandler_LinkAuthor_UnknownAuthor_IsInvalidReference(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	book := GivenBook(t, s, "978-0061054884", 1)

	// act
	_, _, err := handler.LinkAuthor(context.Background(), books.LinkAuthorCommand{BookID: book.ID, AuthorID: 77})

	// assert
	assert.ErrorIs(t, err, store.ErrInvalidReference)
	assert.ErrorContains(t, err, "Author 77 does not exist")
}

func Test_CommandHandler_UnlinkAuthor(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := books.NewCommandHandler(s)

	// arrange
	book := GivenBook(t, s, "978-0061054884", 1)
	author := GivenAuthor(t, s, "Le Guin")
	GivenLink(t, s, book.ID, author.ID)
	command := books.UnlinkAuthorCommand{BookID: book.ID, AuthorID: author.ID}

	// act
	_, first, err1 := handler.UnlinkAuthor(context.Background(), command)
	_, second, err2 := handler.UnlinkAuthor(context.Background(), command)

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.False(t, first.Idempotent)
	assert.True(t, second.Idempotent, "removing a missing link changes nothing")
	assert.Zero(t, CountOf(t, s, store.KindBookAuthor, store.All()))
}
