package memory

import (
	"context"
	"slices"
	"strconv"
	"time"

	"tienda/domain/product"
	"tienda/domain/shared"
	"tienda/infrastructure/persistence/po"
)

// ProductRepository memory implementation of product.Repository
type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	defer r.store.lock(ctx)()

	rec, ok := r.store.st.products[id]
	if !ok || rec.row.DeletedAt.Valid {
		return nil, product.NewProductNotFoundError(id)
	}
	return rec.row.ToDomain(slices.Clone(rec.images)), nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*product.Product, error) {
	defer r.store.lock(ctx)()

	result := make(map[int64]*product.Product, len(ids))
	for _, id := range ids {
		rec, ok := r.store.st.products[id]
		if !ok || rec.row.DeletedAt.Valid {
			continue
		}
		result[id] = rec.row.ToDomain(slices.Clone(rec.images))
	}
	return result, nil
}

// FindByIDsForUpdate the store lock already serializes writers, nothing extra to lock
func (r *ProductRepository) FindByIDsForUpdate(ctx context.Context, ids []int64) (map[int64]*product.Product, error) {
	return r.FindByIDs(ctx, ids)
}

func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	defer r.store.lock(ctx)()

	row, images := po.FromProductDomain(p)
	existing, exists := r.store.st.products[p.ID()]

	if p.IsNew() {
		if exists {
			return shared.NewConflictError("product", "product already exists")
		}
		r.store.st.products[p.ID()] = productRecord{row: *row, images: images}
		p.ClearDirtyTracking()
		return nil
	}

	if !exists || existing.row.Version != p.Version() {
		return shared.NewConcurrentModificationError("product", strconv.FormatInt(p.ID(), 10))
	}
	if row.Stock < 0 {
		return shared.NewInvalidStateError("product", "stock must not be negative")
	}

	updated := existing.row
	updated.Stock = row.Stock
	updated.Price = row.Price
	updated.Currency = row.Currency
	updated.Discount = row.Discount
	updated.Available = row.Available
	updated.Version++
	updated.UpdatedAt = time.Now().UTC()
	r.store.st.products[p.ID()] = productRecord{row: updated, images: existing.images}

	p.IncrementVersionForSave()
	p.ClearDirtyTracking()
	return nil
}

var _ product.Repository = (*ProductRepository)(nil)
