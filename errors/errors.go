package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches a cause to a sentinel error without mutating it
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// From converts any error into an *Error, falling back to a generic 500
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer.Wrap(err)
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Cart and catalog error types
var (
	ErrProductNotFound  = New(http.StatusNotFound, "Product not found", nil)
	ErrCartItemNotFound = New(http.StatusNotFound, "Product not found in cart", nil)
	ErrCartNotFound     = New(http.StatusNotFound, "Cart not found", nil)
	ErrInvalidQuantity  = New(http.StatusBadRequest, "Quantity must be at least 1", nil)
)

// Order error types
var (
	ErrOrderNotFound           = New(http.StatusNotFound, "Order not found", nil)
	ErrInvalidStatus           = New(http.StatusBadRequest, "Invalid order status", nil)
	ErrEmptyCart               = New(http.StatusBadRequest, "No products in cart", nil)
	ErrDeliveryAddressRequired = New(http.StatusBadRequest, "Delivery address is required for courier delivery", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Incorrect email or password", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Could not validate credentials", nil)
	ErrAlreadyRegistered  = New(http.StatusBadRequest, "User already registered", nil)
)

// Store error types; backing-store details stay out of client responses
var (
	ErrStoreUnavailable = New(http.StatusServiceUnavailable, "Storage temporarily unavailable", nil)
)
