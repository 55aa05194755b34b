package store

import (
	"errors"
	"fmt"
)

// Domain failure codes, carried into the dispatcher's result envelope.
const (
	CodePageLimitExceeded     = "PAGE_LIMIT_EXCEEDED"
	CodeUnknownProduct        = "UNKNOWN_PRODUCT"
	CodeNotInBasket           = "NOT_IN_BASKET"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeEmptyBasket           = "EMPTY_BASKET"
)

// DomainError is implemented by every expected, recoverable store failure.
// Anything else returned by the store is a programming error.
type DomainError interface {
	error
	Code() string
}

// PageLimitError reports a listing request whose limit exceeds MaxPageSize.
type PageLimitError struct {
	Limit int // the violating limit
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("page limit exceeded: requested %d, max %d", e.Limit, MaxPageSize)
}

// Code implements DomainError.
func (e *PageLimitError) Code() string { return CodePageLimitExceeded }

// UnknownProductError reports a SKU that is not in the catalog.
type UnknownProductError struct {
	SKU string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("product %s not found", e.SKU)
}

// Code implements DomainError.
func (e *UnknownProductError) Code() string { return CodeUnknownProduct }

// NotInBasketError reports a removal from a SKU with no basket entry.
type NotInBasketError struct {
	SKU string
}

func (e *NotInBasketError) Error() string {
	return fmt.Sprintf("product %s not in basket", e.SKU)
}

// Code implements DomainError.
func (e *NotInBasketError) Code() string { return CodeNotInBasket }

// InsufficientInventoryError reports the first basket SKU, in catalog order,
// whose quantity exceeds the available inventory at checkout.
type InsufficientInventoryError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %s during checkout: available %d, in basket %d",
		e.SKU, e.Available, e.Requested)
}

// Code implements DomainError.
func (e *InsufficientInventoryError) Code() string { return CodeInsufficientInventory }

// ErrEmptyBasket is returned by Checkout when there is nothing to commit.
var ErrEmptyBasket = &emptyBasketError{}

type emptyBasketError struct{}

func (e *emptyBasketError) Error() string { return "basket is empty" }

// Code implements DomainError.
func (e *emptyBasketError) Code() string { return CodeEmptyBasket }

// AsDomainError reports whether err is an expected store failure and, if so,
// returns it.
func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
