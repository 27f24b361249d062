package services

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInsufficientStock
	KindInvalidPromo
	KindEmptyCart
	KindInvalidState
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case KindInvalidPromo:
		return "INVALID_PROMO"
	case KindEmptyCart:
		return "EMPTY_CART"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	default:
		return "INTERNAL"
	}
}

// Error is the typed failure returned by the cart and order services.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func InsufficientStock(product string, remaining int) *Error {
	return newError(KindInsufficientStock, "insufficient stock for %s: %d remaining", product, remaining)
}

func InvalidPromo(format string, args ...interface{}) *Error {
	return newError(KindInvalidPromo, format, args...)
}

func EmptyCart() *Error {
	return newError(KindEmptyCart, "cart is empty")
}

func InvalidState(format string, args ...interface{}) *Error {
	return newError(KindInvalidState, format, args...)
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return newError(KindInvalidArgument, format, args...)
}

// KindOf returns the kind of a service error anywhere in err's chain,
// KindInternal for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
