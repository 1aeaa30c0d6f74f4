package members_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/engine/members"
	"github.com/AntonStoeckl/library-lending-go/store"
	. "github.com/AntonStoeckl/library-lending-go/testutil/sqlitetest" //nolint:revive
)

func Test_CommandHandler_Create_Success_DefaultsJoinDateToToday(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// act
	member, result, err := handler.Create(context.Background(), members.CreateCommand{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})

	// assert
	require.NoError(t, err)
	assert.Positive(t, member.ID, "should assign an id")
	assert.Equal(t, Today, member.JoinDate, "join date should default to today")
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, result.RetryAttempts)
	assert.EqualValues(t, 1, CountOf(t, s, store.KindMember, store.All()))
}

func Test_CommandHandler_Create_KeepsSuppliedJoinDate(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)
	joined := store.NewDate(2020, 1, 15)

	// act
	member, _, err := handler.Create(context.Background(), members.CreateCommand{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		JoinDate:  &joined,
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, joined, member.JoinDate)
}

func Test_CommandHandler_Create_DuplicateEmail_IsConflict(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// arrange
	GivenMember(t, s, "grace@example.com")

	// act
	_, _, err := handler.Create(context.Background(), members.CreateCommand{
		FirstName: "Another",
		LastName:  "Grace",
		Email:     "grace@example.com",
	})

	// assert
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.EqualValues(t, 1, CountOf(t, s, store.KindMember, store.All()), "no second member should be written")
}

func Test_CommandHandler_Create_InvalidInput(t *testing.T) {
	testCases := []struct {
		name    string
		command members.CreateCommand
		message string
	}{
		{
			name:    "blank first name",
			command: members.CreateCommand{FirstName: "  ", LastName: "Lovelace", Email: "ada@example.com"},
			message: "first_name is required",
		},
		{
			name:    "malformed email",
			command: members.CreateCommand{FirstName: "Ada", LastName: "Lovelace", Email: "not-an-email"},
			message: "email must be a valid email address",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			s := NewStore(t)
			handler := members.NewCommandHandler(s)

			// act
			_, _, err := handler.Create(context.Background(), tc.command)

			// assert
			assert.ErrorIs(t, err, store.ErrInvalidInput)
			assert.ErrorContains(t, err, tc.message)
		})
	}
}

func Test_CommandHandler_Update_OverwritesOnlySuppliedFields(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// arrange
	existing := GivenMember(t, s, "grace@example.com")
	phone := "555-0199"

	// act
	updated, _, err := handler.Update(context.Background(), members.UpdateCommand{
		MemberID: existing.ID,
		Patch:    store.MemberPatch{Phone: store.Some(&phone)},
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, existing.Email, updated.Email, "email should be unchanged")
	assert.Equal(t, existing.FirstName, updated.FirstName, "first name should be unchanged")
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func Test_CommandHandler_Update_SameEmail_IsNoSelfConflict(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// arrange
	existing := GivenMember(t, s, "grace@example.com")

	// act
	_, _, err := handler.Update(context.Background(), members.UpdateCommand{
		MemberID: existing.ID,
		Patch:    store.MemberPatch{Email: store.Some("grace@example.com"), LastName: store.Some("Murray")},
	})

	// assert
	assert.NoError(t, err)
}

func Test_CommandHandler_Update_EmailTakenByOther_IsConflict(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// arrange
	GivenMember(t, s, "grace@example.com")
	other := GivenMember(t, s, "ada@example.com")

	// act
	_, _, err := handler.Update(context.Background(), members.UpdateCommand{
		MemberID: other.ID,
		Patch:    store.MemberPatch{Email: store.Some("grace@example.com")},
	})

	// assert
	assert.ErrorIs(t, err, store.ErrConflict)
}

func Test_CommandHandler_Update_EmptyPatch_IsIdempotent(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// arrange
	existing := GivenMember(t, s, "grace@example.com")

	// act
	member, result, err := handler.Update(context.Background(), members.UpdateCommand{MemberID: existing.ID})

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, existing, member)
}

func Test_CommandHandler_Update_Unknown_IsNotFound(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// act
	_, _, err := handler.Update(context.Background(), members.UpdateCommand{
		MemberID: 4711,
		Patch:    store.MemberPatch{LastName: store.Some("Nobody")},
	})

	// assert
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func Test_CommandHandler_Delete_WithActiveLoan_IsConflict(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// arrange
	member := GivenMember(t, s, "grace@example.com")
	book := GivenBook(t, s, "978-0131103627", 1)
	GivenActiveLoan(t, s, member.ID, book.ID)

	// act
	_, _, err := handler.Delete(context.Background(), members.DeleteCommand{MemberID: member.ID})

	// assert
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.ErrorContains(t, err, "cannot delete member with active loans")
	assert.EqualValues(t, 1, CountOf(t, s, store.KindMember, store.All()))
}

func Test_CommandHandler_Delete_WithOnlyReturnedLoans_Succeeds(t *testing.T) {
	// setup
	s := NewStore(t)
	handler := members.NewCommandHandler(s)

	// arrange
	member := GivenMember(t, s, "grace@example.com")
	book := GivenBook(t, s, "978-0131103627", 1)
	GivenReturnedLoan(t, s, member.ID, book.ID)

	// act
	deleted, _, err := handler.Delete(context.Background(), members.DeleteCommand{MemberID: member.ID})

	// assert
	require.NoError(t, err)
	assert.Equal(t, member.ID, deleted.ID)
	assert.Zero(t, CountOf(t, s, store.KindMember, store.All()))
	assert.Zero(t, CountOf(t, s, store.KindLoan, store.All()), "returned loans should go with the member")
}
