package cart

import "context"

// Repository cart persistence
type Repository interface {
	// FindByOwner loads the cart with its items; a missing cart is ErrCartNotFound
	FindByOwner(ctx context.Context, owner Owner) (*Cart, error)

	// FindByUserIDForUpdate loads and row-locks the cart of a registered user
	FindByUserIDForUpdate(ctx context.Context, userID int64) (*Cart, error)

	// Save inserts or updates the cart and replaces its items.
	// Updates are version checked.
	Save(ctx context.Context, c *Cart) error
}
