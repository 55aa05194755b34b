package tool

import (
	"context"
	"errors"
	"fmt"

	"shopagent/internal/store"
)

// ErrUnknownAction is returned by Dispatch for action names outside the
// registry. It marks a malformed proposal, not a domain outcome.
var ErrUnknownAction = errors.New("unknown action")

// Dispatcher executes proposed actions against a store. It is stateless:
// every side effect is confined to the store it was built with.
type Dispatcher struct {
	store *store.Store
}

// NewDispatcher creates a Dispatcher bound to the given store.
func NewDispatcher(st *store.Store) *Dispatcher {
	return &Dispatcher{store: st}
}

// Dispatch coerces params for the named action, executes it, and returns the
// result envelope: status 200 with a payload on success, status 400 with a
// structured error on a domain failure. The returned error is non-nil only
// for caller-contract failures (ErrUnknownAction, *CoercionError); domain
// failures never surface as Go errors here.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, params map[string]any) (Result, error) {
	args, err := CoerceArgs(action, params)
	if err != nil {
		return Result{}, err
	}
	return d.execute(ctx, args)
}

func (d *Dispatcher) execute(_ context.Context, args Args) (Result, error) {
	switch a := args.(type) {
	case ListProductsArgs:
		page, err := d.store.ListProducts(a.Offset, a.Limit)
		if err != nil {
			return domainResult(err)
		}
		return okResult(page), nil

	case AddToBasketArgs:
		if err := d.store.AddToBasket(a.SKU, a.Amount); err != nil {
			return domainResult(err)
		}
		return okResult(Ack{Message: "ok"}), nil

	case RemoveFromBasketArgs:
		if err := d.store.RemoveFromBasket(a.SKU, a.Amount); err != nil {
			return domainResult(err)
		}
		return okResult(Ack{Message: "ok"}), nil

	case ViewBasketArgs:
		return okResult(d.store.ViewBasket()), nil

	case CheckoutBasketArgs:
		receipt, err := d.store.Checkout()
		if err != nil {
			return domainResult(err)
		}
		return okResult(receipt), nil

	default:
		return Result{}, fmt.Errorf("unhandled argument variant %T", args)
	}
}

func okResult(payload any) Result {
	return Result{
		Success:    true,
		StatusCode: StatusOK,
		Payload:    payload,
	}
}

// domainResult normalizes an expected store failure into the envelope. A
// store error outside the domain taxonomy is a programming error and is
// passed through as a Go error.
func domainResult(err error) (Result, error) {
	de, ok := store.AsDomainError(err)
	if !ok {
		return Result{}, err
	}
	return Result{
		Success:    false,
		StatusCode: StatusDomainFailure,
		ErrorCode:  de.Code(),
		Error:      de.Error(),
		Err:        de,
	}, nil
}
