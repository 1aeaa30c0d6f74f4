package store

import "time"

// ScanFunc copies the columns of the current row into dest, in Kind.Columns order.
type ScanFunc func(dest ...any) error

// Record is implemented by pointers to entity types so engines can scan rows generically.
type Record interface {
	Kind() Kind
	ScanRow(scan ScanFunc) error
}

// Member is a registered library member.
type Member struct {
	ID        int64   `json:"member_id"`
	FirstName string  `json:"first_name" validate:"notblank,max=100"`
	LastName  string  `json:"last_name" validate:"notblank,max=100"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	JoinDate  Date    `json:"join_date"`
}

// Kind implements Record.
func (*Member) Kind() Kind { return KindMember }

// ScanRow implements Record.
func (m *Member) ScanRow(scan ScanFunc) error {
	var joinDate time.Time

	if err := scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &joinDate); err != nil {
		return err
	}

	m.JoinDate = DateOf(joinDate)

	return nil
}

// Category groups books by subject.
type Category struct {
	ID   int64  `json:"category_id"`
	Name string `json:"category_name" validate:"notblank,max=100"`
}

// Kind implements Record.
func (*Category) Kind() Kind { return KindCategory }

// ScanRow implements Record.
func (c *Category) ScanRow(scan ScanFunc) error {
	return scan(&c.ID, &c.Name)
}

// Book is a catalog title with a count of copies currently on the shelf.
type Book struct {
	ID              int64  `json:"book_id"`
	Title           string `json:"title" validate:"notblank,max=255"`
	ISBN            string `json:"isbn" validate:"notblank,max=20"`
	PublishedYear   *int   `json:"published_year" validate:"omitempty,gte=0,lte=9999"`
	CategoryID      *int64 `json:"category_id" validate:"omitempty,gt=0"`
	CopiesAvailable int    `json:"copies_available" validate:"gte=0"`
}

// Kind implements Record.
func (*Book) Kind() Kind { return KindBook }

// ScanRow implements Record.
func (b *Book) ScanRow(scan ScanFunc) error {
	return scan(&b.ID, &b.Title, &b.ISBN, &b.PublishedYear, &b.CategoryID, &b.CopiesAvailable)
}

// Author wrote one or more books.
type Author struct {
	ID        int64  `json:"author_id"`
	FirstName string `json:"first_name" validate:"notblank,max=100"`
	LastName  string `json:"last_name" validate:"notblank,max=100"`
}

// Kind implements Record.
func (*Author) Kind() Kind { return KindAuthor }

// ScanRow implements Record.
func (a *Author) ScanRow(scan ScanFunc) error {
	return scan(&a.ID, &a.FirstName, &a.LastName)
}

// BookAuthor links a book to one of its authors.
type BookAuthor struct {
	BookID   int64 `json:"book_id"`
	AuthorID int64 `json:"author_id"`
}

// Kind implements Record.
func (*BookAuthor) Kind() Kind { return KindBookAuthor }

// ScanRow implements Record.
func (ba *BookAuthor) ScanRow(scan ScanFunc) error {
	return scan(&ba.BookID, &ba.AuthorID)
}

// Loan records a book lent to a member. A nil ReturnDate means the loan is active.
type Loan struct {
	ID         int64 `json:"loan_id"`
	MemberID   int64 `json:"member_id"`
	BookID     int64 `json:"book_id"`
	LoanDate   Date  `json:"loan_date"`
	DueDate    Date  `json:"due_date"`
	ReturnDate *Date `json:"return_date"`
}

// Kind implements Record.
func (*Loan) Kind() Kind { return KindLoan }

// ScanRow implements Record.
func (l *Loan) ScanRow(scan ScanFunc) error {
	var loanDate, dueDate time.Time
	var returnDate *time.Time

	if err := scan(&l.ID, &l.MemberID, &l.BookID, &loanDate, &dueDate, &returnDate); err != nil {
		return err
	}

	l.LoanDate = DateOf(loanDate)
	l.DueDate = DateOf(dueDate)
	l.ReturnDate = datePtr(returnDate)

	return nil
}

// IsActive reports whether the loan has not been returned yet.
func (l Loan) IsActive() bool {
	return l.ReturnDate == nil
}
