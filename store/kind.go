package store

// Kind identifies an entity kind and doubles as its table name.
type Kind string

const (
	KindMember     Kind = "members"
	KindCategory   Kind = "categories"
	KindBook       Kind = "books"
	KindAuthor     Kind = "authors"
	KindBookAuthor Kind = "book_authors"
	KindLoan       Kind = "loans"
)

// Column names shared by the schema, the filters and the entity scanners.
const (
	ColMemberID        = "member_id"
	ColFirstName       = "first_name"
	ColLastName        = "last_name"
	ColEmail           = "email"
	ColPhone           = "phone"
	ColJoinDate        = "join_date"
	ColCategoryID      = "category_id"
	ColCategoryName    = "category_name"
	ColBookID          = "book_id"
	ColTitle           = "title"
	ColISBN            = "isbn"
	ColPublishedYear   = "published_year"
	ColCopiesAvailable = "copies_available"
	ColAuthorID        = "author_id"
	ColLoanID          = "loan_id"
	ColLoanDate        = "loan_date"
	ColDueDate         = "due_date"
	ColReturnDate      = "return_date"
)

type kindTable struct {
	name    string
	key     string
	columns []string
	orderBy []string
}

var kindTables = map[Kind]kindTable{
	KindMember: {
		name:    "Member",
		key:     ColMemberID,
		columns: []string{ColMemberID, ColFirstName, ColLastName, ColEmail, ColPhone, ColJoinDate},
		orderBy: []string{ColMemberID},
	},
	KindCategory: {
		name:    "Category",
		key:     ColCategoryID,
		columns: []string{ColCategoryID, ColCategoryName},
		orderBy: []string{ColCategoryID},
	},
	KindBook: {
		name:    "Book",
		key:     ColBookID,
		columns: []string{ColBookID, ColTitle, ColISBN, ColPublishedYear, ColCategoryID, ColCopiesAvailable},
		orderBy: []string{ColBookID},
	},
	KindAuthor: {
		name:    "Author",
		key:     ColAuthorID,
		columns: []string{ColAuthorID, ColFirstName, ColLastName},
		orderBy: []string{ColAuthorID},
	},
	KindBookAuthor: {
		name:    "BookAuthor",
		columns: []string{ColBookID, ColAuthorID},
		orderBy: []string{ColBookID, ColAuthorID},
	},
	KindLoan: {
		name:    "Loan",
		key:     ColLoanID,
		columns: []string{ColLoanID, ColMemberID, ColBookID, ColLoanDate, ColDueDate, ColReturnDate},
		orderBy: []string{ColLoanID},
	},
}

// Valid reports whether k is one of the known entity kinds.
func (k Kind) Valid() bool {
	_, ok := kindTables[k]
	return ok
}

// Table returns the table name of the kind.
func (k Kind) Table() string {
	return string(k)
}

// Name returns the singular entity name, used in messages and operation labels.
func (k Kind) Name() string {
	return kindTables[k].name
}

// Key returns the store-assigned identifier column, or "" for kinds with a composite key.
func (k Kind) Key() string {
	return kindTables[k].key
}

// HasSerialKey reports whether rows of this kind get a store-assigned identifier on insert.
func (k Kind) HasSerialKey() bool {
	return kindTables[k].key != ""
}

// Columns returns the selected columns in the order the entity scanners expect them.
func (k Kind) Columns() []string {
	return kindTables[k].columns
}

// OrderBy returns the columns that define the natural ascending order of the kind.
func (k Kind) OrderBy() []string {
	return kindTables[k].orderBy
}
