package product

import "context"

// Repository product persistence used by checkout and the cart
type Repository interface {
	// FindByID loads one product; soft-deleted products are reported as not found
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDs loads the given products without locking them. Missing or
	// soft-deleted ids are absent from the result.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*Product, error)

	// FindByIDsForUpdate loads and row-locks the given products in ascending id
	// order. Missing or soft-deleted ids are simply absent from the result.
	FindByIDsForUpdate(ctx context.Context, ids []int64) (map[int64]*Product, error)

	// Save inserts a new product or updates stock, price and discount with a
	// version check. A lost version check is shared.ErrConcurrentModification.
	Save(ctx context.Context, p *Product) error
}
