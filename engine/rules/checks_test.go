package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/engine/rules"
	"github.com/AntonStoeckl/library-lending-go/store"
	. "github.com/AntonStoeckl/library-lending-go/testutil/sqlitetest" //nolint:revive
)

func Test_Unique_EnsureAvailable(t *testing.T) {
	// setup
	s := NewStore(t)
	ctx := context.Background()

	// arrange
	grace := GivenMember(t, s, "grace@example.com")
	other := GivenMember(t, s, "other@example.com")

	// act
	err := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		// assert
		assert.NoError(t, rules.UniqueEmail.EnsureAvailable(ctx, r, "new@example.com", 0))
		assert.NoError(t, rules.UniqueEmail.EnsureAvailable(ctx, r, "grace@example.com", grace.ID), "own value is no conflict")

		err := rules.UniqueEmail.EnsureAvailable(ctx, r, "grace@example.com", other.ID)
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.ErrorContains(t, err, "email already registered")

		return nil
	})

	require.NoError(t, err)
}

func Test_EnsureExists(t *testing.T) {
	// setup
	s := NewStore(t)
	ctx := context.Background()

	// arrange
	book := GivenBook(t, s, "978-0441013593", 1)

	// act
	err := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		// assert
		assert.NoError(t, rules.EnsureExists(ctx, r, store.KindBook, book.ID))
		assert.NoError(t, rules.EnsureOptionalExists(ctx, r, store.KindCategory, nil))

		missing := int64(404)
		err := rules.EnsureOptionalExists(ctx, r, store.KindCategory, &missing)
		assert.ErrorIs(t, err, store.ErrInvalidReference)
		assert.ErrorContains(t, err, "Category 404 does not exist")

		return nil
	})

	require.NoError(t, err)
}

func Test_EnsureNoActiveLoans(t *testing.T) {
	// setup
	s := NewStore(t)
	ctx := context.Background()

	// arrange
	member := GivenMember(t, s, "grace@example.com")
	lent := GivenBook(t, s, "978-0441013593", 2)
	returned := GivenBook(t, s, "978-0553283686", 1)
	GivenActiveLoan(t, s, member.ID, lent.ID)
	GivenReturnedLoan(t, s, member.ID, returned.ID)

	// act
	err := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		// assert
		blocked := rules.EnsureNoActiveLoans(ctx, r, store.KindMember, member.ID)
		assert.ErrorIs(t, blocked, store.ErrConflict)
		assert.ErrorContains(t, blocked, "cannot delete member with active loans")

		assert.ErrorIs(t, rules.EnsureNoActiveLoans(ctx, r, store.KindBook, lent.ID), store.ErrConflict)
		assert.NoError(t, rules.EnsureNoActiveLoans(ctx, r, store.KindBook, returned.ID), "returned loans should not block")

		return nil
	})

	require.NoError(t, err)
}

func Test_HasActiveLoanFor(t *testing.T) {
	// setup
	s := NewStore(t)
	ctx := context.Background()

	// arrange
	member := GivenMember(t, s, "grace@example.com")
	lent := GivenBook(t, s, "978-0441013593", 2)
	returned := GivenBook(t, s, "978-0553283686", 1)
	GivenActiveLoan(t, s, member.ID, lent.ID)
	GivenReturnedLoan(t, s, member.ID, returned.ID)

	// act
	err := s.Read(ctx, func(ctx context.Context, r store.Reader) error {
		onLoan, err := rules.HasActiveLoanFor(ctx, r, member.ID, lent.ID)
		require.NoError(t, err)

		alreadyBack, err := rules.HasActiveLoanFor(ctx, r, member.ID, returned.ID)
		require.NoError(t, err)

		// assert
		assert.True(t, onLoan)
		assert.False(t, alreadyBack)

		return nil
	})

	require.NoError(t, err)
}
