package order

import "context"

// Repository order persistence
type Repository interface {
	// CodeExists reports whether an order already uses code
	CodeExists(ctx context.Context, code string) (bool, error)

	// Save inserts a new order with its items, or updates status fields with a
	// version check and appends the new audit rows.
	// A lost version check is shared.ErrConcurrentModification.
	Save(ctx context.Context, o *Order) error

	// FindByCode loads an order with items; missing is ErrOrderNotFound
	FindByCode(ctx context.Context, code string) (*Order, error)

	// FindByUserID lists the orders of a user, newest first
	FindByUserID(ctx context.Context, userID int64, page Page) ([]*Order, int64, error)

	// StatusHistory audit rows of an order, oldest first
	StatusHistory(ctx context.Context, orderID string) ([]StatusChange, error)
}

// Page 1-based pagination request
type Page struct {
	Number int
	Size   int
}

// MaxPageSize upper bound for Page.Size
const MaxPageSize = 100

// Normalize clamps number to >= 1 and size to [1, MaxPageSize], using
// defaultSize when size is not positive
func (p Page) Normalize(defaultSize int) Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
