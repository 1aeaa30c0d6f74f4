package loans_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/engine/loans"
	"github.com/AntonStoeckl/library-lending-go/store"
)

var (
	today   = store.NewDate(2024, time.March, 4)
	dueDate = store.NewDate(2024, time.March, 18)
)

func givenShelvedBook(copies int) *store.Book {
	return &store.Book{ID: 7, Title: "Kindred", ISBN: "978-0807083697", CopiesAvailable: copies}
}

func Test_DecideCheckout_Success_WhenAllPreconditionsMet(t *testing.T) {
	// arrange
	state := loans.CheckoutState{MemberExists: true, Book: givenShelvedBook(1)}
	command := loans.BuildCheckoutCommand(3, 7, dueDate)

	// act
	loan, err := loans.DecideCheckout(state, command, today)

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), loan.MemberID)
	assert.Equal(t, int64(7), loan.BookID)
	assert.Equal(t, today, loan.LoanDate, "loan date should default to today")
	assert.Equal(t, dueDate, loan.DueDate)
	assert.True(t, loan.IsActive())
}

func Test_DecideCheckout_DueDateOnLoanDate_IsAllowed(t *testing.T) {
	// arrange
	state := loans.CheckoutState{MemberExists: true, Book: givenShelvedBook(1)}
	command := loans.BuildCheckoutCommand(3, 7, today)

	// act
	_, err := loans.DecideCheckout(state, command, today)

	// assert
	assert.NoError(t, err)
}

func Test_DecideCheckout_UsesSuppliedLoanDate(t *testing.T) {
	// arrange
	state := loans.CheckoutState{MemberExists: true, Book: givenShelvedBook(1)}
	loanDate := store.NewDate(2024, time.March, 1)
	command := loans.BuildCheckoutCommand(3, 7, dueDate)
	command.LoanDate = &loanDate

	// act
	loan, err := loans.DecideCheckout(state, command, today)

	// assert
	require.NoError(t, err)
	assert.Equal(t, loanDate, loan.LoanDate)
}

func Test_DecideCheckout_Failures(t *testing.T) {
	testCases := []struct {
		name        string
		state       loans.CheckoutState
		dueDate     store.Date
		expectedErr error
		message     string
	}{
		{
			name:        "due date before loan date",
			state:       loans.CheckoutState{MemberExists: true, Book: givenShelvedBook(1)},
			dueDate:     store.NewDate(2024, time.March, 3),
			expectedErr: store.ErrInvalidInput,
			message:     "due_date 2024-03-03 is before loan_date 2024-03-04",
		},
		{
			name:        "unknown member",
			state:       loans.CheckoutState{Book: givenShelvedBook(1)},
			dueDate:     dueDate,
			expectedErr: store.ErrInvalidReference,
			message:     "Member 3 does not exist",
		},
		{
			name:        "unknown book",
			state:       loans.CheckoutState{MemberExists: true},
			dueDate:     dueDate,
			expectedErr: store.ErrInvalidReference,
			message:     "Book 7 does not exist",
		},
		{
			name:        "no copy on the shelf",
			state:       loans.CheckoutState{MemberExists: true, Book: givenShelvedBook(0)},
			dueDate:     dueDate,
			expectedErr: store.ErrUnavailable,
			message:     "book not available for loan",
		},
		{
			name:        "member already has the book",
			state:       loans.CheckoutState{MemberExists: true, Book: givenShelvedBook(2), MemberHasBookOnLoanNow: true},
			dueDate:     dueDate,
			expectedErr: store.ErrConflict,
			message:     "member already has this book on loan",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := loans.DecideCheckout(tc.state, loans.BuildCheckoutCommand(3, 7, tc.dueDate), today)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.ErrorContains(t, err, tc.message)
		})
	}
}

func Test_DecideCheckout_UnavailableWinsOverConflict(t *testing.T) {
	// arrange
	state := loans.CheckoutState{MemberExists: true, Book: givenShelvedBook(0), MemberHasBookOnLoanNow: true}

	// act
	_, err := loans.DecideCheckout(state, loans.BuildCheckoutCommand(3, 7, dueDate), today)

	// assert
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func Test_DecideReturn_Success(t *testing.T) {
	// arrange
	loan := store.Loan{ID: 1, MemberID: 3, BookID: 7, LoanDate: today, DueDate: dueDate}
	returnDay := store.NewDate(2024, time.March, 10)

	// act
	returned, err := loans.DecideReturn(loan, returnDay)

	// assert
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, returnDay, *returned.ReturnDate)
	assert.True(t, loan.IsActive(), "the input loan should not be modified")
}

func Test_DecideReturn_AlreadyReturned_IsInvalidState(t *testing.T) {
	// arrange
	returnedOn := today
	loan := store.Loan{ID: 1, MemberID: 3, BookID: 7, LoanDate: today, DueDate: dueDate, ReturnDate: &returnedOn}

	// act
	_, err := loans.DecideReturn(loan, today)

	// assert
	assert.ErrorIs(t, err, store.ErrInvalidState)
	assert.ErrorContains(t, err, "book already returned")
}
