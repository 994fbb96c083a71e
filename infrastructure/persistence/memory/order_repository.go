package memory

import (
	"context"
	"slices"
	"strings"

	"tienda/domain/order"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/po"
)

// OrderRepository memory implementation of order.Repository
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	defer r.store.lock(ctx)()
	_, ok := r.store.st.codes[code]
	return ok, nil
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	defer r.store.lock(ctx)()

	row, items := po.FromOrderDomain(o)
	st := r.store.st

	if o.IsNew() {
		if _, taken := st.codes[o.Code()]; taken {
			return shared.NewConcurrentModificationError("order", o.Code())
		}
		st.orders[o.ID()] = orderRecord{row: *row, items: items}
		st.codes[o.Code()] = o.ID()
		o.ClearDirtyTracking()
		return nil
	}

	existing, exists := st.orders[o.ID()]
	if !exists {
		return order.NewOrderNotFoundError(o.Code())
	}
	if existing.row.Version != o.Version() {
		return shared.NewConcurrentModificationError("order", o.Code())
	}

	updated := existing.row
	updated.Status = row.Status
	updated.StatusChangedAt = row.StatusChangedAt
	updated.ChangedByAdminID = row.ChangedByAdminID
	updated.ChangeReason = row.ChangeReason
	updated.UpdatedAt = row.UpdatedAt
	updated.Version++

	history := slices.Clone(existing.history)
	for _, change := range po.FromStatusChanges(o.ID(), o.NewStatusChanges()) {
		change.ID = uint(len(history) + 1)
		history = append(history, change)
	}
	st.orders[o.ID()] = orderRecord{row: updated, items: existing.items, history: history}

	o.IncrementVersionForSave()
	o.ClearDirtyTracking()
	return nil
}

func (r *OrderRepository) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	defer r.store.lock(ctx)()

	id, ok := r.store.st.codes[code]
	if !ok {
		return nil, order.NewOrderNotFoundError(code)
	}
	rec := r.store.st.orders[id]
	return rec.row.ToDomain(slices.Clone(rec.items)), nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID int64, page order.Page) ([]*order.Order, int64, error) {
	defer r.store.lock(ctx)()

	var matched []orderRecord
	for _, rec := range r.store.st.orders {
		if rec.row.UserID == userID {
			matched = append(matched, rec)
		}
	}

	// newest first, id breaks ties like the SQL ORDER BY
	slices.SortFunc(matched, func(a, b orderRecord) int {
		if c := b.row.CreatedAt.Compare(a.row.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.row.ID, a.row.ID)
	})

	total := int64(len(matched))
	start := min(page.Offset(), len(matched))
	end := min(start+page.Size, len(matched))

	orders := make([]*order.Order, 0, end-start)
	for _, rec := range matched[start:end] {
		orders = append(orders, rec.row.ToDomain(slices.Clone(rec.items)))
	}
	return orders, total, nil
}

func (r *OrderRepository) StatusHistory(ctx context.Context, orderID string) ([]order.StatusChange, error) {
	defer r.store.lock(ctx)()

	rec := r.store.st.orders[orderID]
	changes := make([]order.StatusChange, len(rec.history))
	for i := range rec.history {
		changes[i] = rec.history[i].ToDomain()
	}
	return changes, nil
}

var _ order.Repository = (*OrderRepository)(nil)
