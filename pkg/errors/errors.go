// Package errors application error codes shared by the services and the API.
// HTTP status mapping lives in the API layer.
package errors

import (
	"errors"
	"fmt"

	"tienda/domain/cart"
	"tienda/domain/order"
	"tienda/domain/product"
	"tienda/domain/shared"
)

// ErrorCode stable machine readable error code
type ErrorCode string

const (
	// generic
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeInvalidState   ErrorCode = "INVALID_STATE"

	// checkout
	CodeCartNotFound       ErrorCode = "CART_NOT_FOUND"
	CodeCartEmpty          ErrorCode = "CART_EMPTY"
	CodeProductNotFound    ErrorCode = "PRODUCT_NOT_FOUND"
	CodeProductUnavailable ErrorCode = "PRODUCT_UNAVAILABLE"
	CodeInsufficientStock  ErrorCode = "INSUFFICIENT_STOCK"
	CodeRequestInProgress  ErrorCode = "REQUEST_IN_PROGRESS"

	// orders
	CodeOrderNotFound     ErrorCode = "ORDER_NOT_FOUND"
	CodeInvalidTransition ErrorCode = "INVALID_STATUS_TRANSITION"

	// storage
	CodeConcurrentModify  ErrorCode = "CONCURRENT_MODIFICATION"
	CodeTransientConflict ErrorCode = "TRANSIENT_CONFLICT"
)

// AppError application error
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an error without cause
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap keeps err as the cause
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is reports whether err carries code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// sentinelCodes specific domain errors, checked before the shared kinds
var sentinelCodes = []struct {
	sentinel error
	code     ErrorCode
}{
	{cart.ErrCartNotFound, CodeCartNotFound},
	{cart.ErrCartEmpty, CodeCartEmpty},
	{product.ErrProductNotFound, CodeProductNotFound},
	{product.ErrProductUnavailable, CodeProductUnavailable},
	{order.ErrOrderNotFound, CodeOrderNotFound},
	{order.ErrInvalidTransition, CodeInvalidTransition},
}

// kindCodes shared error kinds
var kindCodes = []struct {
	kind error
	code ErrorCode
}{
	{shared.ErrTransientConflict, CodeTransientConflict},
	{shared.ErrInvalidInput, CodeValidation},
	{shared.ErrNotFound, CodeNotFound},
	{shared.ErrInsufficientStock, CodeInsufficientStock},
	{shared.ErrInvalidState, CodeInvalidState},
	{shared.ErrConcurrentModification, CodeConcurrentModify},
	{shared.ErrConflict, CodeConflict},
}

// FromDomainError maps any error returned by the services to an AppError.
// Unknown errors become CodeInternal with the cause kept for logging.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// retry exhaustion wraps the last conflict, so it is checked first
	if errors.Is(err, shared.ErrTransientConflict) {
		return Wrap(err, CodeTransientConflict, "the store is busy, please retry")
	}

	var stockErr *product.InsufficientStockError
	if errors.As(err, &stockErr) {
		return &AppError{
			Code:    CodeInsufficientStock,
			Message: stockErr.Error(),
			Details: map[string]any{
				"product_id": stockErr.ProductID,
				"title":      stockErr.Title,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			},
			Err: err,
		}
	}

	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.sentinel) {
			return Wrap(err, sc.code, err.Error())
		}
	}
	for _, kc := range kindCodes {
		if errors.Is(err, kc.kind) {
			return Wrap(err, kc.code, err.Error())
		}
	}

	return Wrap(err, CodeInternal, "internal server error")
}
