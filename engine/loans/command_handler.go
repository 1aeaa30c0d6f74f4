package loans

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/engine/rules"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
)

// ErrShelfCountChanged is joined with store.ErrTransient when the guarded decrement matched no row
// although the locked book still showed a copy. The attempt is rolled back and retried.
var ErrShelfCountChanged = errors.New("shelf count changed during checkout")

// CommandHandler executes the loan lifecycle commands.
type CommandHandler struct {
	store        shell.TxRunner
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(s shell.TxRunner, opts ...Option) CommandHandler {
	handler := CommandHandler{store: s}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Checkout lends a copy of the book to the member: it inserts an active loan and takes one copy off
// the shelf, atomically.
func (h CommandHandler) Checkout(ctx context.Context, command CheckoutCommand) (store.Loan, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Loan, error) {
		state, err := loadCheckoutState(ctx, tx, command)
		if err != nil {
			return store.Loan{}, err
		}

		loan, err := DecideCheckout(state, command, tx.Today())
		if err != nil {
			return store.Loan{}, err
		}

		id, err := tx.Insert(ctx, store.KindLoan, loan.Fields())
		if err != nil {
			return store.Loan{}, err
		}

		loan.ID = id

		taken, err := tx.Increment(
			ctx,
			store.KindBook,
			store.ColCopiesAvailable,
			-1,
			store.ByKey(store.KindBook, loan.BookID).And(store.Gt(store.ColCopiesAvailable, 0)),
		)
		if err != nil {
			return store.Loan{}, err
		}

		if taken == 0 {
			return store.Loan{}, errors.Join(store.ErrTransient, ErrShelfCountChanged)
		}

		return loan, nil
	})
}

// loadCheckoutState locks the book row first so that concurrent checkouts of one book queue up here.
func loadCheckoutState(ctx context.Context, tx store.Tx, command CheckoutCommand) (CheckoutState, error) {
	var state CheckoutState

	book, err := store.LoadLocked[store.Book](ctx, tx, command.BookID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// reported by DecideCheckout as an invalid reference
	case err != nil:
		return CheckoutState{}, err
	default:
		state.Book = &book
	}

	state.MemberExists, err = tx.Exists(ctx, store.KindMember, store.ByKey(store.KindMember, command.MemberID))
	if err != nil {
		return CheckoutState{}, err
	}

	if state.Book != nil && state.MemberExists {
		state.MemberHasBookOnLoanNow, err = rules.HasActiveLoanFor(ctx, tx, command.MemberID, command.BookID)
		if err != nil {
			return CheckoutState{}, err
		}
	}

	return state, nil
}

// Return closes an active loan and puts the copy back on the shelf.
func (h CommandHandler) Return(ctx context.Context, command ReturnCommand) (store.Loan, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Loan, error) {
		loan, err := store.LoadLocked[store.Loan](ctx, tx, command.LoanID)
		if err != nil {
			return store.Loan{}, err
		}

		returned, err := DecideReturn(loan, tx.Today())
		if err != nil {
			return store.Loan{}, err
		}

		closed, err := tx.Update(
			ctx,
			store.KindLoan,
			store.ByKey(store.KindLoan, loan.ID).And(store.IsNull(store.ColReturnDate)),
			store.Fields{store.ColReturnDate: returned.ReturnDate.Time},
		)
		if err != nil {
			return store.Loan{}, err
		}

		// a concurrent return closed it between our read and our write
		if closed == 0 {
			return store.Loan{}, store.Violation(store.ErrInvalidState, failureReasonAlreadyReturned)
		}

		if _, err = tx.Increment(ctx, store.KindBook, store.ColCopiesAvailable, 1, store.ByKey(store.KindBook, loan.BookID)); err != nil {
			return store.Loan{}, err
		}

		return returned, nil
	})
}
