package query

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
)

// Service answers the read queries.
type Service struct {
	store    shell.ReadRunner
	eventual bool
}

// Option configures a Service.
type Option func(*Service)

// WithEventualConsistency lets the engine serve reads from a replica.
func WithEventualConsistency() Option {
	return func(s *Service) {
		s.eventual = true
	}
}

// NewService creates a Service reading from r.
func NewService(r shell.ReadRunner, opts ...Option) Service {
	service := Service{store: r}

	for _, opt := range opts {
		opt(&service)
	}

	return service
}

func read[R any](ctx context.Context, s Service, work func(ctx context.Context, r store.Reader) (R, error)) (R, error) {
	if s.eventual {
		ctx = store.WithEventualConsistency(ctx)
	}

	return shell.ExecuteRead(ctx, s.store, work)
}

func page(filter store.Filter, p Page) store.Filter {
	return filter.Window(p.Skip, p.Limit)
}

/***** Members *****/

func (s Service) GetMember(ctx context.Context, q GetMemberQuery) (store.Member, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) (store.Member, error) {
		return store.Load[store.Member](ctx, r, q.MemberID)
	})
}

func (s Service) ListMembers(ctx context.Context, q ListMembersQuery) ([]store.Member, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) ([]store.Member, error) {
		return store.Select[store.Member](ctx, r, page(store.All(), q.Page))
	})
}

/***** Books *****/

// GetBook returns the book with its category and authors.
func (s Service) GetBook(ctx context.Context, q GetBookQuery) (BookDetails, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) (BookDetails, error) {
		book, err := store.Load[store.Book](ctx, r, q.BookID)
		if err != nil {
			return BookDetails{}, err
		}

		details := BookDetails{Book: book}

		if book.CategoryID != nil {
			category, err := store.Load[store.Category](ctx, r, *book.CategoryID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				// deleted after the book was read
			case err != nil:
				return BookDetails{}, err
			default:
				details.Category = &category
			}
		}

		details.Authors, err = authorsOf(ctx, r, book.ID)
		if err != nil {
			return BookDetails{}, err
		}

		return details, nil
	})
}

func (s Service) ListBooks(ctx context.Context, q ListBooksQuery) ([]store.Book, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) ([]store.Book, error) {
		filter := store.All()
		if q.CategoryID != nil {
			filter = filter.And(store.Eq(store.ColCategoryID, *q.CategoryID))
		}

		return store.Select[store.Book](ctx, r, page(filter, q.Page))
	})
}

/***** Categories *****/

func (s Service) GetCategory(ctx context.Context, q GetCategoryQuery) (store.Category, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) (store.Category, error) {
		return store.Load[store.Category](ctx, r, q.CategoryID)
	})
}

func (s Service) ListCategories(ctx context.Context, q ListCategoriesQuery) ([]store.Category, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) ([]store.Category, error) {
		return store.Select[store.Category](ctx, r, page(store.All(), q.Page))
	})
}

/***** Authors *****/

func (s Service) GetAuthor(ctx context.Context, q GetAuthorQuery) (store.Author, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) (store.Author, error) {
		return store.Load[store.Author](ctx, r, q.AuthorID)
	})
}

func (s Service) ListAuthors(ctx context.Context, q ListAuthorsQuery) ([]store.Author, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) ([]store.Author, error) {
		return store.Select[store.Author](ctx, r, page(store.All(), q.Page))
	})
}

// AuthorsOfBook returns ErrNotFound for an unknown book and an empty slice for a book without authors.
func (s Service) AuthorsOfBook(ctx context.Context, q AuthorsOfBookQuery) ([]store.Author, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) ([]store.Author, error) {
		if _, err := store.Load[store.Book](ctx, r, q.BookID); err != nil {
			return nil, err
		}

		return authorsOf(ctx, r, q.BookID)
	})
}

// BooksOfAuthor returns ErrNotFound for an unknown author.
func (s Service) BooksOfAuthor(ctx context.Context, q BooksOfAuthorQuery) ([]store.Book, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) ([]store.Book, error) {
		if _, err := store.Load[store.Author](ctx, r, q.AuthorID); err != nil {
			return nil, err
		}

		links, err := store.Select[store.BookAuthor](ctx, r, store.Where(store.Eq(store.ColAuthorID, q.AuthorID)))
		if err != nil {
			return nil, err
		}

		return resolve(ctx, r, links, func(link store.BookAuthor) int64 { return link.BookID }, store.Load[store.Book])
	})
}

func authorsOf(ctx context.Context, r store.Reader, bookID int64) ([]store.Author, error) {
	links, err := store.Select[store.BookAuthor](ctx, r, store.Where(store.Eq(store.ColBookID, bookID)))
	if err != nil {
		return nil, err
	}

	return resolve(ctx, r, links, func(link store.BookAuthor) int64 { return link.AuthorID }, store.Load[store.Author])
}

// resolve loads the entity on the far side of each link. Links whose target vanished between the two
// reads are skipped.
func resolve[E any](
	ctx context.Context,
	r store.Reader,
	links []store.BookAuthor,
	target func(store.BookAuthor) int64,
	load func(context.Context, store.Reader, int64) (E, error),
) ([]E, error) {
	result := make([]E, 0, len(links))

	for _, link := range links {
		e, err := load(ctx, r, target(link))
		if errors.Is(err, store.ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		result = append(result, e)
	}

	return result, nil
}

/***** Loans *****/

// GetLoan returns the loan with its member and book.
func (s Service) GetLoan(ctx context.Context, q GetLoanQuery) (LoanDetails, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) (LoanDetails, error) {
		loan, err := store.Load[store.Loan](ctx, r, q.LoanID)
		if err != nil {
			return LoanDetails{}, err
		}

		member, err := store.Load[store.Member](ctx, r, loan.MemberID)
		if err != nil {
			return LoanDetails{}, err
		}

		book, err := store.Load[store.Book](ctx, r, loan.BookID)
		if err != nil {
			return LoanDetails{}, err
		}

		return LoanDetails{Loan: loan, Member: member, Book: book}, nil
	})
}

func (s Service) ListLoans(ctx context.Context, q ListLoansQuery) ([]store.Loan, error) {
	return read(ctx, s, func(ctx context.Context, r store.Reader) ([]store.Loan, error) {
		filter := store.All()
		if q.MemberID != nil {
			filter = filter.And(store.Eq(store.ColMemberID, *q.MemberID))
		}

		if q.ActiveOnly {
			filter = filter.And(store.IsNull(store.ColReturnDate))
		}

		return store.Select[store.Loan](ctx, r, page(filter, q.Page))
	})
}
