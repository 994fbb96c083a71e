/*
Package order - order domain errors

1. Sentinels support errors.Is(); every error also matches its shared kind
   (shared.ErrNotFound, shared.ErrConflict, ...) so callers outside the
   domain can classify it without knowing the order package
2. Constructors capture the stack at creation (skip=3: runtime.Callers,
   CaptureStack, NewXxxError)
3. No HTTP status codes or other transport concepts
*/
package order

import (
	"errors"
	"strconv"

	"tienda/domain/shared"
)

var (
	// ErrOrderNotFound no order with the given code or id
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidTransition (from, to) is not in the whitelist
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrEmptyOrderItems order must have at least one item
	ErrEmptyOrderItems = errors.New("order must have at least one item")

	// ErrCodeGenerationExhausted every generated code already existed
	ErrCodeGenerationExhausted = errors.New("could not generate a unique order code")
)

// NewOrderNotFoundError order missing, looked up by code or id
func NewOrderNotFoundError(ref string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		kind:     shared.ErrNotFound,
		message:  "order not found: " + ref,
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidTransitionError from -> to is not allowed
func NewInvalidTransitionError(from, to Status) error {
	return &orderDomainError{
		sentinel: ErrInvalidTransition,
		kind:     shared.ErrConflict,
		message:  "invalid status transition: " + string(from) + " -> " + string(to),
		stack:    shared.CaptureStack(3),
	}
}

// NewEmptyOrderItemsError order without items
func NewEmptyOrderItemsError() error {
	return &orderDomainError{
		sentinel: ErrEmptyOrderItems,
		kind:     shared.ErrInvalidState,
		field:    "items",
		message:  "order must have at least one item",
		stack:    shared.CaptureStack(3),
	}
}

// NewCodeGenerationExhaustedError code generator gave up
func NewCodeGenerationExhaustedError(attempts int) error {
	return &orderDomainError{
		sentinel: ErrCodeGenerationExhausted,
		kind:     shared.ErrConflict,
		message:  "could not generate a unique order code after " + strconv.Itoa(attempts) + " attempts",
		stack:    shared.CaptureStack(3),
	}
}

// orderDomainError order error with stack
type orderDomainError struct {
	sentinel error
	kind     error
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() []error {
	return []error{e.sentinel, e.kind}
}

// Stack implements shared.Stacker
func (e *orderDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}
	return shared.FormatStack(e.stack)
}
