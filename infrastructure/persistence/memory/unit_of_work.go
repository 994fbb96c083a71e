package memory

import (
	"context"
	"fmt"

	"tienda/domain/shared"
	"tienda/infrastructure/persistence/po"
	"tienda/infrastructure/persistence/retry"
	"tienda/pkg/logger"

	"go.uber.org/zap"
)

// UnitOfWork runs fn with the store locked and restores the previous state
// when fn fails. Events of registered aggregates go to the store outbox.
type UnitOfWork struct {
	store       *Store
	aggregates  []shared.AggregateRoot
	retryConfig retry.Config
}

func NewUnitOfWork(store *Store, retryConfig retry.Config) *UnitOfWork {
	return &UnitOfWork{
		store:       store,
		aggregates:  make([]shared.AggregateRoot, 0),
		retryConfig: retryConfig,
	}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.ExecuteWithRetry(ctx, u.retryConfig, func(ctx context.Context) error {
		u.aggregates = make([]shared.AggregateRoot, 0)

		u.store.mu.Lock()
		defer u.store.mu.Unlock()

		snapshot := u.store.st.clone()
		txCtx := context.WithValue(ctx, txKey{}, u.store)

		if err := fn(txCtx); err != nil {
			u.store.st = snapshot
			return err
		}

		for _, agg := range u.aggregates {
			for _, event := range agg.PullEvents() {
				if err := shared.ValidateEvent(event); err != nil {
					u.store.st = snapshot
					return fmt.Errorf("invalid domain event: %w", err)
				}
				row, err := po.FromDomainEvent(event)
				if err != nil {
					u.store.st = snapshot
					return fmt.Errorf("failed to save event to outbox: %w", err)
				}
				u.store.st.outbox = append(u.store.st.outbox, *row)
				logger.Debug("Outbox event stored",
					zap.String("event_type", row.EventType),
					zap.String("aggregate_id", row.AggregateID),
				)
			}
		}
		return nil
	})
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// UnitOfWorkFactory memory counterpart of the GORM factory
type UnitOfWorkFactory struct {
	store       *Store
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(store *Store, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.store, f.retryConfig)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
