package query

const (
	getMemberQueryType      = "GetMember"
	listMembersQueryType    = "ListMembers"
	getBookQueryType        = "GetBook"
	listBooksQueryType      = "ListBooks"
	getCategoryQueryType    = "GetCategory"
	listCategoriesQueryType = "ListCategories"
	getAuthorQueryType      = "GetAuthor"
	listAuthorsQueryType    = "ListAuthors"
	authorsOfBookQueryType  = "AuthorsOfBook"
	booksOfAuthorQueryType  = "BooksOfAuthor"
	getLoanQueryType        = "GetLoan"
	listLoansQueryType      = "ListLoans"
)

// Page is an offset/limit window. A zero Limit means store.DefaultLimit.
type Page struct {
	Skip  uint
	Limit uint
}

type GetMemberQuery struct {
	MemberID int64
}

func (q GetMemberQuery) QueryType() string { return getMemberQueryType }

type ListMembersQuery struct {
	Page Page
}

func (q ListMembersQuery) QueryType() string { return listMembersQueryType }

type GetBookQuery struct {
	BookID int64
}

func (q GetBookQuery) QueryType() string { return getBookQueryType }

// ListBooksQuery lists the catalog, optionally restricted to one category.
type ListBooksQuery struct {
	Page       Page
	CategoryID *int64
}

func (q ListBooksQuery) QueryType() string { return listBooksQueryType }

type GetCategoryQuery struct {
	CategoryID int64
}

func (q GetCategoryQuery) QueryType() string { return getCategoryQueryType }

type ListCategoriesQuery struct {
	Page Page
}

func (q ListCategoriesQuery) QueryType() string { return listCategoriesQueryType }

type GetAuthorQuery struct {
	AuthorID int64
}

func (q GetAuthorQuery) QueryType() string { return getAuthorQueryType }

type ListAuthorsQuery struct {
	Page Page
}

func (q ListAuthorsQuery) QueryType() string { return listAuthorsQueryType }

// AuthorsOfBookQuery lists the authors linked to a book.
type AuthorsOfBookQuery struct {
	BookID int64
}

func (q AuthorsOfBookQuery) QueryType() string { return authorsOfBookQueryType }

// BooksOfAuthorQuery lists the books linked to an author.
type BooksOfAuthorQuery struct {
	AuthorID int64
}

func (q BooksOfAuthorQuery) QueryType() string { return booksOfAuthorQueryType }

type GetLoanQuery struct {
	LoanID int64
}

func (q GetLoanQuery) QueryType() string { return getLoanQueryType }

// ListLoansQuery lists loans, optionally restricted to one member and/or to active loans.
type ListLoansQuery struct {
	Page       Page
	MemberID   *int64
	ActiveOnly bool
}

func (q ListLoansQuery) QueryType() string { return listLoansQueryType }
