package authors

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/engine/rules"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
)

// CommandHandler executes the author commands.
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

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(s shell.TxRunner, opts ...Option) CommandHandler {
	handler := CommandHandler{store: s}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

func (h CommandHandler) Create(ctx context.Context, command CreateCommand) (store.Author, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Author, error) {
		author := store.Author{FirstName: command.FirstName, LastName: command.LastName}

		if err := rules.Validate(author); err != nil {
			return store.Author{}, err
		}

		id, err := tx.Insert(ctx, store.KindAuthor, author.Fields())
		if err != nil {
			return store.Author{}, err
		}

		author.ID = id

		return author, nil
	})
}

func (h CommandHandler) Update(ctx context.Context, command UpdateCommand) (store.Author, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Author, error) {
		author, err := store.LoadLocked[store.Author](ctx, tx, command.AuthorID)
		if err != nil {
			return store.Author{}, err
		}

		fields := command.Patch.Fields()
		if len(fields) == 0 {
			return author, shell.ErrIdempotentOperation
		}

		author.Apply(command.Patch)

		if err = rules.Validate(author); err != nil {
			return store.Author{}, err
		}

		if _, err = tx.Update(ctx, store.KindAuthor, store.ByKey(store.KindAuthor, author.ID), fields); err != nil {
			return store.Author{}, err
		}

		return author, nil
	})
}

// Delete removes the author. The schema cascades the delete to its book links.
func (h CommandHandler) Delete(ctx context.Context, command DeleteCommand) (store.Author, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Author, error) {
		author, err := store.LoadLocked[store.Author](ctx, tx, command.AuthorID)
		if err != nil {
			return store.Author{}, err
		}

		if _, err = tx.Delete(ctx, store.KindAuthor, store.ByKey(store.KindAuthor, author.ID)); err != nil {
			return store.Author{}, err
		}

		return author, nil
	})
}
