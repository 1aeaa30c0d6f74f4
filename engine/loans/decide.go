package loans

import (
	"github.com/AntonStoeckl/library-lending-go/engine/rules"
	"github.com/AntonStoeckl/library-lending-go/store"
)

const (
	failureReasonBookNotAvailable = "book not available for loan"
	failureReasonAlreadyOnLoan    = "member already has this book on loan"
	failureReasonAlreadyReturned  = "book already returned"
)

// CheckoutState is what a checkout needs to know about the store, read inside the checkout transaction.
type CheckoutState struct {
	MemberExists           bool
	Book                   *store.Book // nil if the book does not exist
	MemberHasBookOnLoanNow bool
}

// DecideCheckout applies the checkout rules and returns the loan to insert.
// This is a pure function: everything it needs comes in through its arguments.
//
// Business Rules:
//
//	GIVEN: a member, a book and a due date
//	WHEN: CheckoutBook is received
//	THEN: an active loan starting today (or at the supplied loan date) is created
//	ERROR: InvalidInput if the due date is before the loan date
//	ERROR: InvalidReference if the member or the book does not exist
//	ERROR: Unavailable "book not available for loan" if no copy is on the shelf
//	ERROR: Conflict "member already has this book on loan" if the member has an active loan of the book
func DecideCheckout(state CheckoutState, command CheckoutCommand, today store.Date) (store.Loan, error) {
	loan := store.Loan{
		MemberID: command.MemberID,
		BookID:   command.BookID,
		LoanDate: today,
		DueDate:  command.DueDate,
	}

	if command.LoanDate != nil {
		loan.LoanDate = *command.LoanDate
	}

	if err := rules.EnsureDueDateNotBefore(loan.LoanDate, loan.DueDate); err != nil {
		return store.Loan{}, err
	}

	if !state.MemberExists {
		return store.Loan{}, store.Violation(store.ErrInvalidReference, "Member %d does not exist", command.MemberID)
	}

	if state.Book == nil {
		return store.Loan{}, store.Violation(store.ErrInvalidReference, "Book %d does not exist", command.BookID)
	}

	if state.Book.CopiesAvailable <= 0 {
		return store.Loan{}, store.Violation(store.ErrUnavailable, failureReasonBookNotAvailable)
	}

	if state.MemberHasBookOnLoanNow {
		return store.Loan{}, store.Violation(store.ErrConflict, failureReasonAlreadyOnLoan)
	}

	return loan, nil
}

// DecideReturn applies the return rules to the loaned row and returns it in its returned state.
//
// Business Rules:
//
//	GIVEN: an existing loan
//	WHEN: ReturnBook is received
//	THEN: the loan's return date is set to today
//	ERROR: InvalidState "book already returned" if the loan was returned before
func DecideReturn(loan store.Loan, today store.Date) (store.Loan, error) {
	if !loan.IsActive() {
		return store.Loan{}, store.Violation(store.ErrInvalidState, failureReasonAlreadyReturned)
	}

	loan.ReturnDate = &today

	return loan, nil
}
