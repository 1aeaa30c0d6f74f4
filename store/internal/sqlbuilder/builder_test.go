package sqlbuilder_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/store"
	"github.com/AntonStoeckl/library-lending-go/store/internal/sqlbuilder"
)

func Test_Builder_Select_LockedBookOnPostgres(t *testing.T) {
	// arrange
	builder := sqlbuilder.New(sqlbuilder.DialectPostgres)

	// act
	query, args, err := builder.Select(store.KindBook, store.ByKey(store.KindBook, 5).Locked())

	// assert
	require.NoError(t, err)
	assert.Contains(t, query, `FROM "books"`)
	assert.Contains(t, query, `"book_id" = $1`)
	assert.Contains(t, query, `ORDER BY "book_id" ASC`)
	assert.Contains(t, query, "FOR UPDATE")
	assert.Equal(t, []any{int64(5)}, args)
}

func Test_Builder_Select_SQLiteNeverLocks(t *testing.T) {
	builder := sqlbuilder.New(sqlbuilder.DialectSQLite)

	query, _, err := builder.Select(store.KindBook, store.ByKey(store.KindBook, 5).Locked())

	require.NoError(t, err)
	assert.NotContains(t, query, "FOR UPDATE")
	assert.Contains(t, query, "?")
}

func Test_Builder_Select_Windowed(t *testing.T) {
	builder := sqlbuilder.New(sqlbuilder.DialectPostgres)

	query, _, err := builder.Select(store.KindLoan, store.Where(store.IsNull(store.ColReturnDate)).Window(20, 10))

	require.NoError(t, err)
	assert.Contains(t, query, `"return_date" IS NULL`)
	assert.Contains(t, query, "LIMIT")
	assert.Contains(t, query, "OFFSET")
}

func Test_Builder_Insert_ReturningOnlyForSerialKeysOnPostgres(t *testing.T) {
	tests := []struct {
		name          string
		dialect       string
		kind          store.Kind
		fields        store.Fields
		wantReturning bool
	}{
		{
			name:          "postgres_member_returns_key",
			dialect:       sqlbuilder.DialectPostgres,
			kind:          store.KindMember,
			fields:        store.Fields{store.ColEmail: "a@b.c"},
			wantReturning: true,
		},
		{
			name:    "postgres_link_has_no_key",
			dialect: sqlbuilder.DialectPostgres,
			kind:    store.KindBookAuthor,
			fields:  store.Fields{store.ColBookID: int64(1), store.ColAuthorID: int64(2)},
		},
		{
			name:    "sqlite_uses_last_insert_id",
			dialect: sqlbuilder.DialectSQLite,
			kind:    store.KindMember,
			fields:  store.Fields{store.ColEmail: "a@b.c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _, err := sqlbuilder.New(tt.dialect).Insert(tt.kind, tt.fields)

			require.NoError(t, err)
			assert.Equal(t, tt.wantReturning, strings.Contains(query, "RETURNING"))
		})
	}
}

func Test_Builder_Increment_GuardedDecrement(t *testing.T) {
	builder := sqlbuilder.New(sqlbuilder.DialectPostgres)

	query, args, err := builder.Increment(
		store.KindBook,
		store.ColCopiesAvailable,
		-1,
		store.ByKey(store.KindBook, 3).And(store.Gt(store.ColCopiesAvailable, 0)),
	)

	require.NoError(t, err)
	assert.Contains(t, query, `UPDATE "books" SET`)
	assert.Contains(t, query, `"copies_available" + $1`)
	assert.Contains(t, query, `"copies_available" > `)
	assert.Contains(t, args, int64(-1))
}

func Test_Builder_Update_WithoutFieldsFails(t *testing.T) {
	_, _, err := sqlbuilder.New(sqlbuilder.DialectPostgres).Update(store.KindMember, store.ByKey(store.KindMember, 1), store.Fields{})

	assert.ErrorIs(t, err, store.ErrBuildingQueryFailed)
	assert.ErrorIs(t, err, sqlbuilder.ErrNoFields)
}

func Test_Builder_UnknownKind(t *testing.T) {
	_, _, err := sqlbuilder.New(sqlbuilder.DialectPostgres).Delete(store.Kind("shelves"), store.All())

	assert.ErrorIs(t, err, store.ErrUnknownKind)
}
