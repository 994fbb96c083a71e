/*
Package shared - errors shared across the store subdomains

Design:
1. Sentinel errors classify failures and are matched with errors.Is()
2. DomainError captures the call stack when created and formats it lazily
3. Domain errors never carry transport concepts such as HTTP status codes

Stack capture:
- captured inside constructors (skip=3: runtime.Callers, CaptureStack, NewXxxError)
- formatted only when a log line asks for it (Stack())
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel Errors
// ============================================================================

var (
	// ErrNotFound referenced cart, product or order does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidState precondition of an operation is not met (e.g. empty cart)
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientStock requested quantity exceeds available stock
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict illegal state transition or duplicate request
	ErrConflict = errors.New("conflict")

	// ErrConcurrentModification optimistic lock lost; the unit of work retries it
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrTransientConflict storage conflict that survived every retry attempt
	ErrTransientConflict = errors.New("transient storage conflict")

	// ErrInvalidInput parameter validation failed
	ErrInvalidInput = errors.New("invalid input")
)

// ============================================================================
// Domain Error
// ============================================================================

// DomainError structured error carrying business context and the creation stack
type DomainError struct {
	// Err underlying sentinel, used by errors.Is()
	Err error

	// Entity name of the entity involved ("order", "cart", "product")
	Entity string

	// Message human readable description
	Message string

	// Field optional field name for validation errors
	Field string

	// Cause optional lower level error (driver error, lost optimistic lock, ...)
	Cause error

	stack []uintptr
}

// Error implements error
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is() / errors.As()
func (e *DomainError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Stack formats the captured frames on demand
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// ============================================================================
// Stack helpers
// ============================================================================

// CaptureStack captures the current call stack.
// skip is usually 3: Callers, CaptureStack, NewXxxError
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders frames as "file:line function", skipping runtime frames,
// at most 10 entries
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// ============================================================================
// Constructors
// ============================================================================

// NewNotFoundError entity not found
func NewNotFoundError(entity, message string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewInvalidStateError precondition not met
func NewInvalidStateError(entity, message string) error {
	return &DomainError{
		Err:     ErrInvalidState,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewConflictError illegal transition or duplicate request
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewConcurrentModificationError optimistic lock lost on entity id
func NewConcurrentModificationError(entity, id string) error {
	return &DomainError{
		Err:     ErrConcurrentModification,
		Entity:  entity,
		Message: entity + " " + id + " was modified by another transaction",
		stack:   CaptureStack(3),
	}
}

// NewTransientConflictError wraps the last retryable failure once retries are exhausted
func NewTransientConflictError(attempts int, cause error) error {
	return &DomainError{
		Err:     ErrTransientConflict,
		Entity:  "storage",
		Message: fmt.Sprintf("storage conflict persisted after %d attempts", attempts),
		Cause:   cause,
		stack:   CaptureStack(3),
	}
}

// NewValidationError parameter validation failed
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// ============================================================================
// Stacker
// ============================================================================

// Stacker errors able to report where they were created
type Stacker interface {
	Stack() []string
}
