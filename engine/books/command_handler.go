package books

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/engine/rules"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
)

// CommandHandler executes the catalog commands.
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

// Create adds a title to the catalog and returns it with its assigned id.
func (h CommandHandler) Create(ctx context.Context, command CreateCommand) (store.Book, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Book, error) {
		book := store.Book{
			Title:           command.Title,
			ISBN:            command.ISBN,
			PublishedYear:   command.PublishedYear,
			CategoryID:      command.CategoryID,
			CopiesAvailable: defaultCopies,
		}

		if command.CopiesAvailable != nil {
			book.CopiesAvailable = *command.CopiesAvailable
		}

		if err := rules.Validate(book); err != nil {
			return store.Book{}, err
		}

		if err := rules.UniqueISBN.EnsureAvailable(ctx, tx, book.ISBN, 0); err != nil {
			return store.Book{}, err
		}

		if err := rules.EnsureOptionalExists(ctx, tx, store.KindCategory, book.CategoryID); err != nil {
			return store.Book{}, err
		}

		id, err := tx.Insert(ctx, store.KindBook, book.Fields())
		if err != nil {
			return store.Book{}, err
		}

		book.ID = id

		return book, nil
	})
}

// Update overwrites the supplied attributes. The ISBN is re-checked only when it changes,
// the category only when a new non-nil reference is supplied.
func (h CommandHandler) Update(ctx context.Context, command UpdateCommand) (store.Book, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Book, error) {
		book, err := store.LoadLocked[store.Book](ctx, tx, command.BookID)
		if err != nil {
			return store.Book{}, err
		}

		fields := command.Patch.Fields()
		if len(fields) == 0 {
			return book, shell.ErrIdempotentOperation
		}

		if isbn, ok := command.Patch.ISBN.Get(); ok && isbn != book.ISBN {
			if err = rules.UniqueISBN.EnsureAvailable(ctx, tx, isbn, book.ID); err != nil {
				return store.Book{}, err
			}
		}

		if categoryID, ok := command.Patch.CategoryID.Get(); ok {
			if err = rules.EnsureOptionalExists(ctx, tx, store.KindCategory, categoryID); err != nil {
				return store.Book{}, err
			}
		}

		book.Apply(command.Patch)

		if err = rules.Validate(book); err != nil {
			return store.Book{}, err
		}

		if _, err = tx.Update(ctx, store.KindBook, store.ByKey(store.KindBook, book.ID), fields); err != nil {
			return store.Book{}, err
		}

		return book, nil
	})
}

// Delete removes a book that has no active loan. Its returned loans and author links go with it.
func (h CommandHandler) Delete(ctx context.Context, command DeleteCommand) (store.Book, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Book, error) {
		book, err := store.LoadLocked[store.Book](ctx, tx, command.BookID)
		if err != nil {
			return store.Book{}, err
		}

		if err = rules.EnsureNoActiveLoans(ctx, tx, store.KindBook, book.ID); err != nil {
			return store.Book{}, err
		}

		if _, err = tx.Delete(ctx, store.KindBook, store.ByKey(store.KindBook, book.ID)); err != nil {
			return store.Book{}, err
		}

		return book, nil
	})
}

// LinkAuthor records that the author wrote the book.
func (h CommandHandler) LinkAuthor(ctx context.Context, command LinkAuthorCommand) (store.BookAuthor, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.BookAuthor, error) {
		link := store.BookAuthor{BookID: command.BookID, AuthorID: command.AuthorID}

		if err := rules.EnsureExists(ctx, tx, store.KindBook, link.BookID); err != nil {
			return store.BookAuthor{}, err
		}

		if err := rules.EnsureExists(ctx, tx, store.KindAuthor, link.AuthorID); err != nil {
			return store.BookAuthor{}, err
		}

		linked, err := tx.Exists(ctx, store.KindBookAuthor, linkFilter(link))
		if err != nil {
			return store.BookAuthor{}, err
		}

		if linked {
			return link, shell.ErrIdempotentOperation
		}

		if _, err = tx.Insert(ctx, store.KindBookAuthor, link.Fields()); err != nil {
			return store.BookAuthor{}, err
		}

		return link, nil
	})
}

// UnlinkAuthor removes the link between the book and the author, if there is one.
func (h CommandHandler) UnlinkAuthor(ctx context.Context, command UnlinkAuthorCommand) (store.BookAuthor, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.BookAuthor, error) {
		link := store.BookAuthor{BookID: command.BookID, AuthorID: command.AuthorID}

		removed, err := tx.Delete(ctx, store.KindBookAuthor, linkFilter(link))
		if err != nil {
			return store.BookAuthor{}, err
		}

		if removed == 0 {
			return link, shell.ErrIdempotentOperation
		}

		return link, nil
	})
}

func linkFilter(link store.BookAuthor) store.Filter {
	return store.Where(store.Eq(store.ColBookID, link.BookID), store.Eq(store.ColAuthorID, link.AuthorID))
}
