package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/store"
)

// TxRunner runs a unit of work inside one store transaction.
// Both store engines implement it.
type TxRunner interface {
	InTx(ctx context.Context, fn store.TxFunc) error
}

// ReadRunner runs read-only work against the store.
type ReadRunner interface {
	Read(ctx context.Context, fn store.ReadFunc) error
}

// Store is everything the engine needs from a persistence engine.
type Store interface {
	TxRunner
	ReadRunner
	Ping(ctx context.Context) error
}

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// CoreCommandHandler processes a command and returns the entity it produced.
// Implementations focus on business rules and leave observability to package observable.
type CoreCommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, HandlerResult, error)
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CoreQueryHandler processes a query and returns its result.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// CommandHandlerFunc adapts a function to CoreCommandHandler.
type CommandHandlerFunc[C Command, R any] func(ctx context.Context, command C) (R, HandlerResult, error)

// Handle calls f.
func (f CommandHandlerFunc[C, R]) Handle(ctx context.Context, command C) (R, HandlerResult, error) {
	return f(ctx, command)
}

// QueryHandlerFunc adapts a function to CoreQueryHandler.
type QueryHandlerFunc[Q Query, R any] func(ctx context.Context, query Q) (R, error)

// Handle calls f.
func (f QueryHandlerFunc[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	return f(ctx, query)
}
