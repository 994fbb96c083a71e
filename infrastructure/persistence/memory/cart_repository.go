package memory

import (
	"context"
	"slices"
	"time"

	"tienda/domain/cart"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/po"
)

// CartRepository memory implementation of cart.Repository
type CartRepository struct {
	store *Store
}

func NewCartRepository(store *Store) *CartRepository {
	return &CartRepository{store: store}
}

func (r *CartRepository) FindByOwner(ctx context.Context, owner cart.Owner) (*cart.Cart, error) {
	defer r.store.lock(ctx)()
	return r.find(owner)
}

func (r *CartRepository) FindByUserIDForUpdate(ctx context.Context, userID int64) (*cart.Cart, error) {
	defer r.store.lock(ctx)()
	return r.find(cart.Owner{UserID: userID})
}

// find oldest cart of owner, matching the SQL lookup
func (r *CartRepository) find(owner cart.Owner) (*cart.Cart, error) {
	var found *cartRecord
	for _, rec := range r.store.st.carts {
		if !ownedBy(rec.row, owner) {
			continue
		}
		if found == nil || rec.row.CreatedAt.Before(found.row.CreatedAt) {
			found = &rec
		}
	}
	if found == nil {
		return nil, cart.NewCartNotFoundError(owner)
	}
	return found.row.ToDomain(slices.Clone(found.items)), nil
}

func ownedBy(row po.CartPO, owner cart.Owner) bool {
	if owner.IsRegistered() {
		return row.UserID == owner.UserID
	}
	return row.UserID == 0 && row.BuyerID == owner.BuyerID
}

func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	defer r.store.lock(ctx)()

	row, items := po.FromCartDomain(c)
	existing, exists := r.store.st.carts[c.ID()]

	if c.IsNew() {
		if exists {
			return shared.NewConflictError("cart", "cart already exists")
		}
		r.store.st.carts[c.ID()] = cartRecord{row: *row, items: items}
		c.ClearDirtyTracking()
		return nil
	}

	if !exists || existing.row.Version != c.Version() {
		return shared.NewConcurrentModificationError("cart", c.ID())
	}

	updated := existing.row
	updated.SubTotal = row.SubTotal
	updated.Total = row.Total
	updated.Currency = row.Currency
	updated.Version++
	updated.UpdatedAt = time.Now().UTC()
	r.store.st.carts[c.ID()] = cartRecord{row: updated, items: items}

	c.IncrementVersionForSave()
	c.ClearDirtyTracking()
	return nil
}

var _ cart.Repository = (*CartRepository)(nil)
