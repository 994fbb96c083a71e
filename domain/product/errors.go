package product

import (
	"errors"
	"fmt"
	"strconv"

	"tienda/domain/shared"
)

var (
	// ErrProductNotFound product missing or soft-deleted
	ErrProductNotFound = errors.New("product not found")

	// ErrProductUnavailable product exists but is not listed for sale
	ErrProductUnavailable = errors.New("product is not available")
)

// InsufficientStockError requested quantity exceeds the stock of one product.
// errors.Is(err, shared.ErrInsufficientStock) holds.
type InsufficientStockError struct {
	ProductID int64
	Title     string
	Requested int
	Available int

	stack []uintptr
}

// NewInsufficientStockError creates the error with a captured stack
func NewInsufficientStockError(productID int64, title string, requested, available int) error {
	return &InsufficientStockError{
		ProductID: productID,
		Title:     title,
		Requested: requested,
		Available: available,
		stack:     shared.CaptureStack(3),
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d",
		e.ProductID, e.Title, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return shared.ErrInsufficientStock }

func (e *InsufficientStockError) Stack() []string { return shared.FormatStack(e.stack) }

// NewProductNotFoundError product missing or soft-deleted.
// Matches both ErrProductNotFound and shared.ErrNotFound.
func NewProductNotFoundError(productID int64) error {
	return &productDomainError{
		sentinel: ErrProductNotFound,
		kind:     shared.ErrNotFound,
		message:  "product not found: " + strconv.FormatInt(productID, 10),
		stack:    shared.CaptureStack(3),
	}
}

// NewProductUnavailableError product cannot be added to a cart
func NewProductUnavailableError(productID int64) error {
	return &productDomainError{
		sentinel: ErrProductUnavailable,
		kind:     shared.ErrInvalidState,
		message:  "product is not available: " + strconv.FormatInt(productID, 10),
		stack:    shared.CaptureStack(3),
	}
}

type productDomainError struct {
	sentinel error
	kind     error
	message  string
	stack    []uintptr
}

func (e *productDomainError) Error() string { return e.message }

func (e *productDomainError) Unwrap() []error { return []error{e.sentinel, e.kind} }

func (e *productDomainError) Stack() []string { return shared.FormatStack(e.stack) }
