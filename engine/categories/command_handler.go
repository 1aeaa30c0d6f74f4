package categories

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/engine/rules"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
)

// CommandHandler executes the category commands.
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

func (h CommandHandler) Create(ctx context.Context, command CreateCommand) (store.Category, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Category, error) {
		category := store.Category{Name: command.Name}

		if err := rules.Validate(category); err != nil {
			return store.Category{}, err
		}

		if err := rules.UniqueCategoryName.EnsureAvailable(ctx, tx, category.Name, 0); err != nil {
			return store.Category{}, err
		}

		id, err := tx.Insert(ctx, store.KindCategory, category.Fields())
		if err != nil {
			return store.Category{}, err
		}

		category.ID = id

		return category, nil
	})
}

func (h CommandHandler) Update(ctx context.Context, command UpdateCommand) (store.Category, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Category, error) {
		category, err := store.LoadLocked[store.Category](ctx, tx, command.CategoryID)
		if err != nil {
			return store.Category{}, err
		}

		fields := command.Patch.Fields()
		if len(fields) == 0 {
			return category, shell.ErrIdempotentOperation
		}

		if name, ok := command.Patch.Name.Get(); ok && name != category.Name {
			if err = rules.UniqueCategoryName.EnsureAvailable(ctx, tx, name, category.ID); err != nil {
				return store.Category{}, err
			}
		}

		category.Apply(command.Patch)

		if err = rules.Validate(category); err != nil {
			return store.Category{}, err
		}

		if _, err = tx.Update(ctx, store.KindCategory, store.ByKey(store.KindCategory, category.ID), fields); err != nil {
			return store.Category{}, err
		}

		return category, nil
	})
}

// Delete removes the category. Books filed under it lose their category reference.
func (h CommandHandler) Delete(ctx context.Context, command DeleteCommand) (store.Category, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Category, error) {
		category, err := store.LoadLocked[store.Category](ctx, tx, command.CategoryID)
		if err != nil {
			return store.Category{}, err
		}

		if _, err = tx.Delete(ctx, store.KindCategory, store.ByKey(store.KindCategory, category.ID)); err != nil {
			return store.Category{}, err
		}

		return category, nil
	})
}
