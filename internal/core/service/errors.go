package service

import (
	"errors"
	"fmt"
)

var (
	ErrStockExceeded   = errors.New("stock exceeded")
	ErrProductNotFound = errors.New("product not in cart")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnavailable     = errors.New("product data unavailable")
)

const (
	msgStockExceeded = "requested quantity is out of stock"
	msgAddFailed     = "error adding product"
	msgRemoveFailed  = "error removing product"
	msgUpdateFailed  = "error changing product quantity"
)

// OperationError is returned by every failed CartStore mutation. Kind is one
// of the sentinel errors above and Message is the text handed to the notifier.
type OperationError struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *OperationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage returns the notification text carried by err, empty if err
// did not come from a CartStore operation.
func UserMessage(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return ""
}

func fail(op string, kind error, message string, cause error) error {
	return &OperationError{Op: op, Kind: kind, Message: message, Err: cause}
}
