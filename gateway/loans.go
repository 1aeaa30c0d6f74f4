package gateway

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-lending-go/engine/loans"
	"github.com/AntonStoeckl/library-lending-go/engine/query"
	"github.com/AntonStoeckl/library-lending-go/store"
)

type checkoutRequest struct {
	MemberID int64       `json:"member_id" validate:"required,gt=0"`
	BookID   int64       `json:"book_id" validate:"required,gt=0"`
	LoanDate *store.Date `json:"loan_date"`
	DueDate  *store.Date `json:"due_date" validate:"required"`
}

func (s *server) checkoutBook(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := validated(&req, "field"); err != nil {
		return err
	}

	loan, err := s.library.CheckoutBook(c.UserContext(), loans.CheckoutCommand{
		MemberID: req.MemberID,
		BookID:   req.BookID,
		LoanDate: req.LoanDate,
		DueDate:  *req.DueDate,
	})
	if err != nil {
		return err
	}

	return c.JSON(loan)
}

func (s *server) listLoans(c *fiber.Ctx) error {
	var params loanListParams
	if err := parseQuery(c, &params); err != nil {
		return err
	}

	list, err := s.library.ListLoans(c.UserContext(), query.ListLoansQuery{
		Page:       pageParams{Skip: params.Skip, Limit: params.Limit}.page(),
		MemberID:   params.MemberID,
		ActiveOnly: params.ActiveOnly,
	})
	if err != nil {
		return err
	}

	return c.JSON(nonNil(list))
}

func (s *server) getLoan(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	loan, err := s.library.GetLoan(c.UserContext(), query.GetLoanQuery{LoanID: id})
	if err != nil {
		return err
	}

	return c.JSON(loan)
}

func (s *server) returnBook(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	loan, err := s.library.ReturnBook(c.UserContext(), loans.BuildReturnCommand(id))
	if err != nil {
		return err
	}

	return c.JSON(loan)
}
