package shared

import "context"

// UnitOfWork owns a transaction boundary and collects the events of the
// aggregates registered while it runs.
//
// Execute may run fn more than once when the storage reports a transient
// conflict, so fn must reload everything it reads from ctx.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out one UnitOfWork per business operation
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository stores events in the same transaction as the aggregate
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
