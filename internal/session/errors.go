package session

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes a rejected command.
type ErrorCode string

const (
	// ErrCodeUnknownIntent indicates no handler is registered for the intent.
	ErrCodeUnknownIntent ErrorCode = "UNKNOWN_INTENT"

	// ErrCodeUnknownProduct indicates the product id is not in the catalog.
	ErrCodeUnknownProduct ErrorCode = "UNKNOWN_PRODUCT"

	// ErrCodeOutOfStock indicates an out of stock product was added.
	ErrCodeOutOfStock ErrorCode = "OUT_OF_STOCK"

	// ErrCodeEmptyCart indicates checkout of an empty cart.
	ErrCodeEmptyCart ErrorCode = "EMPTY_CART"

	// ErrCodeInvalidArgs indicates missing or malformed arguments.
	ErrCodeInvalidArgs ErrorCode = "INVALID_ARGS"
)

// Error is a command rejected before it changed any state. Message is
// suitable for showing to the shopper.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a session Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}
