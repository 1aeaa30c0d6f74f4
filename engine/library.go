package engine

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/engine/authors"
	"github.com/AntonStoeckl/library-lending-go/engine/books"
	"github.com/AntonStoeckl/library-lending-go/engine/categories"
	"github.com/AntonStoeckl/library-lending-go/engine/loans"
	"github.com/AntonStoeckl/library-lending-go/engine/members"
	"github.com/AntonStoeckl/library-lending-go/engine/query"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/engine/shell/observable"
	"github.com/AntonStoeckl/library-lending-go/store"
)

// ErrNilStore is returned by NewLibrary when no store is given.
var ErrNilStore = errors.New("store must not be nil")

// Library is the entry point of the lending engine. Every method runs one business operation.
type Library struct {
	store shell.Store

	createMember *observable.CommandWrapper[members.CreateCommand, store.Member]
	updateMember *observable.CommandWrapper[members.UpdateCommand, store.Member]
	deleteMember *observable.CommandWrapper[members.DeleteCommand, store.Member]

	createCategory *observable.CommandWrapper[categories.CreateCommand, store.Category]
	updateCategory *observable.CommandWrapper[categories.UpdateCommand, store.Category]
	deleteCategory *observable.CommandWrapper[categories.DeleteCommand, store.Category]

	createBook   *observable.CommandWrapper[books.CreateCommand, store.Book]
	updateBook   *observable.CommandWrapper[books.UpdateCommand, store.Book]
	deleteBook   *observable.CommandWrapper[books.DeleteCommand, store.Book]
	linkAuthor   *observable.CommandWrapper[books.LinkAuthorCommand, store.BookAuthor]
	unlinkAuthor *observable.CommandWrapper[books.UnlinkAuthorCommand, store.BookAuthor]

	createAuthor *observable.CommandWrapper[authors.CreateCommand, store.Author]
	updateAuthor *observable.CommandWrapper[authors.UpdateCommand, store.Author]
	deleteAuthor *observable.CommandWrapper[authors.DeleteCommand, store.Author]

	checkoutBook *observable.CommandWrapper[loans.CheckoutCommand, store.Loan]
	returnBook   *observable.CommandWrapper[loans.ReturnCommand, store.Loan]

	getMember      *observable.QueryWrapper[query.GetMemberQuery, store.Member]
	listMembers    *observable.QueryWrapper[query.ListMembersQuery, []store.Member]
	getBook        *observable.QueryWrapper[query.GetBookQuery, query.BookDetails]
	listBooks      *observable.QueryWrapper[query.ListBooksQuery, []store.Book]
	getCategory    *observable.QueryWrapper[query.GetCategoryQuery, store.Category]
	listCategories *observable.QueryWrapper[query.ListCategoriesQuery, []store.Category]
	getAuthor      *observable.QueryWrapper[query.GetAuthorQuery, store.Author]
	listAuthors    *observable.QueryWrapper[query.ListAuthorsQuery, []store.Author]
	authorsOfBook  *observable.QueryWrapper[query.AuthorsOfBookQuery, []store.Author]
	booksOfAuthor  *observable.QueryWrapper[query.BooksOfAuthorQuery, []store.Book]
	getLoan        *observable.QueryWrapper[query.GetLoanQuery, query.LoanDetails]
	listLoans      *observable.QueryWrapper[query.ListLoansQuery, []store.Loan]
}

// NewLibrary assembles the engine on top of s.
func NewLibrary(s shell.Store, opts ...Option) (*Library, error) {
	if s == nil {
		return nil, ErrNilStore
	}

	w := &wiring{}
	for _, opt := range opts {
		opt(&w.config)
	}

	memberHandler := members.NewCommandHandler(s, members.WithRetryOptions(w.config.retryOptions...))
	categoryHandler := categories.NewCommandHandler(s, categories.WithRetryOptions(w.config.retryOptions...))
	bookHandler := books.NewCommandHandler(s, books.WithRetryOptions(w.config.retryOptions...))
	authorHandler := authors.NewCommandHandler(s, authors.WithRetryOptions(w.config.retryOptions...))
	loanHandler := loans.NewCommandHandler(s, loans.WithRetryOptions(w.config.retryOptions...))

	var queryOptions []query.Option
	if w.config.eventualReads {
		queryOptions = append(queryOptions, query.WithEventualConsistency())
	}

	queries := query.NewService(s, queryOptions...)

	lib := &Library{
		store: s,

		createMember: wrapCommand(w, memberHandler.Create),
		updateMember: wrapCommand(w, memberHandler.Update),
		deleteMember: wrapCommand(w, memberHandler.Delete),

		createCategory: wrapCommand(w, categoryHandler.Create),
		updateCategory: wrapCommand(w, categoryHandler.Update),
		deleteCategory: wrapCommand(w, categoryHandler.Delete),

		createBook:   wrapCommand(w, bookHandler.Create),
		updateBook:   wrapCommand(w, bookHandler.Update),
		deleteBook:   wrapCommand(w, bookHandler.Delete),
		linkAuthor:   wrapCommand(w, bookHandler.LinkAuthor),
		unlinkAuthor: wrapCommand(w, bookHandler.UnlinkAuthor),

		createAuthor: wrapCommand(w, authorHandler.Create),
		updateAuthor: wrapCommand(w, authorHandler.Update),
		deleteAuthor: wrapCommand(w, authorHandler.Delete),

		checkoutBook: wrapCommand(w, loanHandler.Checkout),
		returnBook:   wrapCommand(w, loanHandler.Return),

		getMember:      wrapQuery(w, queries.GetMember),
		listMembers:    wrapQuery(w, queries.ListMembers),
		getBook:        wrapQuery(w, queries.GetBook),
		listBooks:      wrapQuery(w, queries.ListBooks),
		getCategory:    wrapQuery(w, queries.GetCategory),
		listCategories: wrapQuery(w, queries.ListCategories),
		getAuthor:      wrapQuery(w, queries.GetAuthor),
		listAuthors:    wrapQuery(w, queries.ListAuthors),
		authorsOfBook:  wrapQuery(w, queries.AuthorsOfBook),
		booksOfAuthor:  wrapQuery(w, queries.BooksOfAuthor),
		getLoan:        wrapQuery(w, queries.GetLoan),
		listLoans:      wrapQuery(w, queries.ListLoans),
	}

	if err := errors.Join(w.errs...); err != nil {
		return nil, err
	}

	return lib, nil
}

// Health reports whether the store is reachable.
func (l *Library) Health(ctx context.Context) error {
	return l.store.Ping(ctx)
}

/***** Members *****/

func (l *Library) CreateMember(ctx context.Context, command members.CreateCommand) (store.Member, error) {
	return value(l.createMember.Handle(ctx, command))
}

func (l *Library) UpdateMember(ctx context.Context, command members.UpdateCommand) (store.Member, error) {
	return value(l.updateMember.Handle(ctx, command))
}

// DeleteMember returns the deleted member.
func (l *Library) DeleteMember(ctx context.Context, command members.DeleteCommand) (store.Member, error) {
	return value(l.deleteMember.Handle(ctx, command))
}

func (l *Library) GetMember(ctx context.Context, q query.GetMemberQuery) (store.Member, error) {
	return l.getMember.Handle(ctx, q)
}

func (l *Library) ListMembers(ctx context.Context, q query.ListMembersQuery) ([]store.Member, error) {
	return l.listMembers.Handle(ctx, q)
}

/***** Categories *****/

func (l *Library) CreateCategory(ctx context.Context, command categories.CreateCommand) (store.Category, error) {
	return value(l.createCategory.Handle(ctx, command))
}

func (l *Library) UpdateCategory(ctx context.Context, command categories.UpdateCommand) (store.Category, error) {
	return value(l.updateCategory.Handle(ctx, command))
}

func (l *Library) DeleteCategory(ctx context.Context, command categories.DeleteCommand) (store.Category, error) {
	return value(l.deleteCategory.Handle(ctx, command))
}

func (l *Library) GetCategory(ctx context.Context, q query.GetCategoryQuery) (store.Category, error) {
	return l.getCategory.Handle(ctx, q)
}

func (l *Library) ListCategories(ctx context.Context, q query.ListCategoriesQuery) ([]store.Category, error) {
	return l.listCategories.Handle(ctx, q)
}

/***** Books *****/

func (l *Library) CreateBook(ctx context.Context, command books.CreateCommand) (store.Book, error) {
	return value(l.createBook.Handle(ctx, command))
}

func (l *Library) UpdateBook(ctx context.Context, command books.UpdateCommand) (store.Book, error) {
	return value(l.updateBook.Handle(ctx, command))
}

func (l *Library) DeleteBook(ctx context.Context, command books.DeleteCommand) (store.Book, error) {
	return value(l.deleteBook.Handle(ctx, command))
}

// LinkAuthor reports whether a new link was created. Linking twice is not an error.
func (l *Library) LinkAuthor(ctx context.Context, command books.LinkAuthorCommand) (bool, error) {
	_, result, err := l.linkAuthor.Handle(ctx, command)
	return err == nil && !result.Idempotent, err
}

// UnlinkAuthor reports whether a link was removed. Removing a missing link is not an error.
func (l *Library) UnlinkAuthor(ctx context.Context, command books.UnlinkAuthorCommand) (bool, error) {
	_, result, err := l.unlinkAuthor.Handle(ctx, command)
	return err == nil && !result.Idempotent, err
}

func (l *Library) GetBook(ctx context.Context, q query.GetBookQuery) (query.BookDetails, error) {
	return l.getBook.Handle(ctx, q)
}

func (l *Library) ListBooks(ctx context.Context, q query.ListBooksQuery) ([]store.Book, error) {
	return l.listBooks.Handle(ctx, q)
}

func (l *Library) AuthorsOfBook(ctx context.Context, q query.AuthorsOfBookQuery) ([]store.Author, error) {
	return l.authorsOfBook.Handle(ctx, q)
}

/***** Authors *****/

func (l *Library) CreateAuthor(ctx context.Context, command authors.CreateCommand) (store.Author, error) {
	return value(l.createAuthor.Handle(ctx, command))
}

func (l *Library) UpdateAuthor(ctx context.Context, command authors.UpdateCommand) (store.Author, error) {
	return value(l.updateAuthor.Handle(ctx, command))
}

func (l *Library) DeleteAuthor(ctx context.Context, command authors.DeleteCommand) (store.Author, error) {
	return value(l.deleteAuthor.Handle(ctx, command))
}

func (l *Library) GetAuthor(ctx context.Context, q query.GetAuthorQuery) (store.Author, error) {
	return l.getAuthor.Handle(ctx, q)
}

func (l *Library) ListAuthors(ctx context.Context, q query.ListAuthorsQuery) ([]store.Author, error) {
	return l.listAuthors.Handle(ctx, q)
}

func (l *Library) BooksOfAuthor(ctx context.Context, q query.BooksOfAuthorQuery) ([]store.Book, error) {
	return l.booksOfAuthor.Handle(ctx, q)
}

/***** Loans *****/

// CheckoutBook lends a copy of a book to a member.
func (l *Library) CheckoutBook(ctx context.Context, command loans.CheckoutCommand) (store.Loan, error) {
	return value(l.checkoutBook.Handle(ctx, command))
}

// ReturnBook closes an active loan.
func (l *Library) ReturnBook(ctx context.Context, command loans.ReturnCommand) (store.Loan, error) {
	return value(l.returnBook.Handle(ctx, command))
}

func (l *Library) GetLoan(ctx context.Context, q query.GetLoanQuery) (query.LoanDetails, error) {
	return l.getLoan.Handle(ctx, q)
}

func (l *Library) ListLoans(ctx context.Context, q query.ListLoansQuery) ([]store.Loan, error) {
	return l.listLoans.Handle(ctx, q)
}

// value drops the handler result, which the wrappers have already turned into metrics and logs.
func value[R any](v R, _ shell.HandlerResult, err error) (R, error) {
	return v, err
}
