package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch without matching messages.
type Kind string

const (
	KindValidation            Kind = "VALIDATION"
	KindNotFound              Kind = "NOT_FOUND"
	KindForbidden             Kind = "FORBIDDEN"
	KindConflict              Kind = "CONFLICT"
	KindDependencyUnavailable Kind = "DEPENDENCY_UNAVAILABLE"
	KindInternal              Kind = "INTERNAL"
)

// Error is a domain error carrying its kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to cause. Wrapping a sentinel keeps errors.Is working.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Validation returns a VALIDATION error with a caller-facing message.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// KindOf reports the kind of the outermost domain error in err's chain.
// Errors that carry no kind are INTERNAL.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	ErrNotFound                    = New(KindNotFound, "not found")
	ErrOrderNotFound               = Wrap(KindNotFound, "order not found", ErrNotFound)
	ErrMenuNotFound                = Wrap(KindNotFound, "menu not found", ErrNotFound)
	ErrMaterialNotFound            = Wrap(KindNotFound, "material not found", ErrNotFound)
	ErrForbidden                   = New(KindForbidden, "forbidden")
	ErrQuantityBelowMinimum        = New(KindValidation, "quantity below minimum")
	ErrInvalidQuantity             = New(KindValidation, "quantity must be positive")
	ErrEmptyMaterialList           = New(KindValidation, "material list is empty")
	ErrCancellationDetailsRequired = New(KindValidation, "cancellation requires reason and contact mode")
	ErrInvalidStatus               = New(KindValidation, "unknown order status")
	ErrMenuImmutable               = New(KindValidation, "menu cannot be changed")
	ErrOrderLocked                 = New(KindConflict, "order is locked")
	ErrInvalidTransition           = New(KindConflict, "invalid status transition")
	ErrOrderClosed                 = New(KindConflict, "order is closed")
	ErrInsufficientStock           = New(KindConflict, "insufficient stock")
	ErrMenuOutOfStock              = New(KindConflict, "menu out of stock")
	ErrAlreadyExists               = New(KindConflict, "already exists")
	ErrDependencyUnavailable       = New(KindDependencyUnavailable, "dependency unavailable")
)
