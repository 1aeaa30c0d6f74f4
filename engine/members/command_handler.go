package members

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/engine/rules"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/store"
)

// CommandHandler executes the member commands, each in its own retried transaction.
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

// Create registers a member and returns it with its assigned id.
func (h CommandHandler) Create(ctx context.Context, command CreateCommand) (store.Member, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Member, error) {
		member := store.Member{
			FirstName: command.FirstName,
			LastName:  command.LastName,
			Email:     command.Email,
			Phone:     command.Phone,
			JoinDate:  tx.Today(),
		}

		if command.JoinDate != nil {
			member.JoinDate = *command.JoinDate
		}

		if err := rules.Validate(member); err != nil {
			return store.Member{}, err
		}

		if err := rules.UniqueEmail.EnsureAvailable(ctx, tx, member.Email, 0); err != nil {
			return store.Member{}, err
		}

		id, err := tx.Insert(ctx, store.KindMember, member.Fields())
		if err != nil {
			return store.Member{}, err
		}

		member.ID = id

		return member, nil
	})
}

// Update overwrites the supplied attributes. An empty patch changes nothing and is reported as idempotent.
func (h CommandHandler) Update(ctx context.Context, command UpdateCommand) (store.Member, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Member, error) {
		member, err := store.LoadLocked[store.Member](ctx, tx, command.MemberID)
		if err != nil {
			return store.Member{}, err
		}

		fields := command.Patch.Fields()
		if len(fields) == 0 {
			return member, shell.ErrIdempotentOperation
		}

		if email, ok := command.Patch.Email.Get(); ok && email != member.Email {
			if err = rules.UniqueEmail.EnsureAvailable(ctx, tx, email, member.ID); err != nil {
				return store.Member{}, err
			}
		}

		member.Apply(command.Patch)

		if err = rules.Validate(member); err != nil {
			return store.Member{}, err
		}

		if _, err = tx.Update(ctx, store.KindMember, store.ByKey(store.KindMember, member.ID), fields); err != nil {
			return store.Member{}, err
		}

		return member, nil
	})
}

// Delete removes a member that has no active loan. Its returned loans go with it.
func (h CommandHandler) Delete(ctx context.Context, command DeleteCommand) (store.Member, shell.HandlerResult, error) {
	return shell.ExecuteInTx(ctx, h.store, h.retryOptions, func(ctx context.Context, tx store.Tx) (store.Member, error) {
		member, err := store.LoadLocked[store.Member](ctx, tx, command.MemberID)
		if err != nil {
			return store.Member{}, err
		}

		if err = rules.EnsureNoActiveLoans(ctx, tx, store.KindMember, member.ID); err != nil {
			return store.Member{}, err
		}

		if _, err = tx.Delete(ctx, store.KindMember, store.ByKey(store.KindMember, member.ID)); err != nil {
			return store.Member{}, err
		}

		return member, nil
	})
}
