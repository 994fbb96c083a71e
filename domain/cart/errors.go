package cart

import (
	"errors"
	"strconv"

	"tienda/domain/shared"
)

var (
	// ErrCartNotFound no cart for the owner
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartEmpty checkout of a cart without items
	ErrCartEmpty = errors.New("cart is empty")

	// ErrCartItemNotFound the cart has no line for the product
	ErrCartItemNotFound = errors.New("cart item not found")
)

// NewCartNotFoundError matches ErrCartNotFound and shared.ErrNotFound
func NewCartNotFoundError(owner Owner) error {
	return &cartDomainError{
		sentinel: ErrCartNotFound,
		kind:     shared.ErrNotFound,
		message:  "cart not found for " + owner.String(),
		stack:    shared.CaptureStack(3),
	}
}

// NewCartEmptyError matches ErrCartEmpty and shared.ErrInvalidState
func NewCartEmptyError() error {
	return &cartDomainError{
		sentinel: ErrCartEmpty,
		kind:     shared.ErrInvalidState,
		message:  "cart is empty",
		stack:    shared.CaptureStack(3),
	}
}

// NewCartItemNotFoundError matches ErrCartItemNotFound and shared.ErrNotFound
func NewCartItemNotFoundError(productID int64) error {
	return &cartDomainError{
		sentinel: ErrCartItemNotFound,
		kind:     shared.ErrNotFound,
		message:  "cart has no item for product " + strconv.FormatInt(productID, 10),
		stack:    shared.CaptureStack(3),
	}
}

type cartDomainError struct {
	sentinel error
	kind     error
	message  string
	stack    []uintptr
}

func (e *cartDomainError) Error() string { return e.message }

func (e *cartDomainError) Unwrap() []error { return []error{e.sentinel, e.kind} }

func (e *cartDomainError) Stack() []string { return shared.FormatStack(e.stack) }
