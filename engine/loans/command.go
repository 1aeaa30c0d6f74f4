package loans

import (
	"github.com/AntonStoeckl/library-lending-go/store"
)

const (
	checkoutCommandType = "CheckoutBook"
	returnCommandType   = "ReturnBook"
)

// CheckoutCommand represents the intent to lend a copy of a book to a member.
// A nil LoanDate means the loan starts today.
type CheckoutCommand struct {
	MemberID int64       `json:"member_id"`
	BookID   int64       `json:"book_id"`
	LoanDate *store.Date `json:"loan_date"`
	DueDate  store.Date  `json:"due_date"`
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c CheckoutCommand) CommandType() string {
	return checkoutCommandType
}

// BuildCheckoutCommand creates a CheckoutCommand for a loan starting today.
func BuildCheckoutCommand(memberID, bookID int64, dueDate store.Date) CheckoutCommand {
	return CheckoutCommand{
		MemberID: memberID,
		BookID:   bookID,
		DueDate:  dueDate,
	}
}

// ReturnCommand represents the intent to bring a lent copy back to the shelf.
type ReturnCommand struct {
	LoanID int64
}

// CommandType returns the type identifier for this command.
func (c ReturnCommand) CommandType() string {
	return returnCommandType
}

// BuildReturnCommand creates a ReturnCommand.
func BuildReturnCommand(loanID int64) ReturnCommand {
	return ReturnCommand{LoanID: loanID}
}
