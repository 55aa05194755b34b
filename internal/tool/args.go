package tool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"shopagent/internal/store"
)

// Args is a validated, typed argument struct for one action. Exactly one
// variant exists per action name.
type Args interface {
	action() string
}

// ListProductsArgs are the arguments of the list_products action.
type ListProductsArgs struct {
	Offset int
	Limit  int
}

func (ListProductsArgs) action() string { return ActionListProducts }

// AddToBasketArgs are the arguments of the add_to_basket action.
type AddToBasketArgs struct {
	SKU    string
	Amount int
}

func (AddToBasketArgs) action() string { return ActionAddToBasket }

// ViewBasketArgs are the arguments of the view_basket action. It has none.
type ViewBasketArgs struct{}

func (ViewBasketArgs) action() string { return ActionViewBasket }

// RemoveFromBasketArgs are the arguments of the remove_from_basket action.
type RemoveFromBasketArgs struct {
	SKU    string
	Amount int
}

func (RemoveFromBasketArgs) action() string { return ActionRemoveFromBasket }

// CheckoutBasketArgs are the arguments of the checkout_basket action. It has
// none.
type CheckoutBasketArgs struct{}

func (CheckoutBasketArgs) action() string { return ActionCheckoutBasket }

// CoercionError reports a proposal parameter that could not be coerced into
// the action's expected type, or that failed validation. It marks a
// caller-contract failure, not a domain outcome.
type CoercionError struct {
	Action string
	Param  string
	Reason string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("action %s: parameter %q: %s", e.Action, e.Param, e.Reason)
}

// CoerceArgs converts the loosely-typed parameter payload of a proposal into
// the typed argument variant for the given action. Numeric parameters accept
// JSON numbers, Go integer types, and numeric strings. Unknown actions fail
// with ErrUnknownAction; bad parameters fail with *CoercionError.
func CoerceArgs(action string, params map[string]any) (Args, error) {
	switch action {
	case ActionListProducts:
		offset, err := intParam(action, params, "offset", 0)
		if err != nil {
			return nil, err
		}
		if offset < 0 {
			return nil, &CoercionError{Action: action, Param: "offset", Reason: "must be non-negative"}
		}
		limit, err := intParam(action, params, "limit", store.MaxPageSize)
		if err != nil {
			return nil, err
		}
		if limit < 1 {
			return nil, &CoercionError{Action: action, Param: "limit", Reason: "must be positive"}
		}
		return ListProductsArgs{Offset: offset, Limit: limit}, nil

	case ActionAddToBasket:
		sku, err := skuParam(action, params)
		if err != nil {
			return nil, err
		}
		amount, err := amountParam(action, params)
		if err != nil {
			return nil, err
		}
		return AddToBasketArgs{SKU: sku, Amount: amount}, nil

	case ActionRemoveFromBasket:
		sku, err := skuParam(action, params)
		if err != nil {
			return nil, err
		}
		amount, err := amountParam(action, params)
		if err != nil {
			return nil, err
		}
		return RemoveFromBasketArgs{SKU: sku, Amount: amount}, nil

	case ActionViewBasket:
		return ViewBasketArgs{}, nil

	case ActionCheckoutBasket:
		return CheckoutBasketArgs{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func skuParam(action string, params map[string]any) (string, error) {
	raw, ok := params["sku"]
	if !ok {
		return "", &CoercionError{Action: action, Param: "sku", Reason: "missing"}
	}
	sku, ok := raw.(string)
	if !ok {
		return "", &CoercionError{Action: action, Param: "sku", Reason: fmt.Sprintf("expected string, got %T", raw)}
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return "", &CoercionError{Action: action, Param: "sku", Reason: "must not be empty"}
	}
	return sku, nil
}

func amountParam(action string, params map[string]any) (int, error) {
	if _, ok := params["amount"]; !ok {
		return 0, &CoercionError{Action: action, Param: "amount", Reason: "missing"}
	}
	amount, err := intParam(action, params, "amount", 0)
	if err != nil {
		return 0, err
	}
	if amount < 1 {
		return 0, &CoercionError{Action: action, Param: "amount", Reason: "must be positive"}
	}
	return amount, nil
}

// intParam reads an integer parameter, coercing from the types a JSON-shaped
// proposal may carry. A missing key yields the fallback.
func intParam(action string, params map[string]any, key string, fallback int) (int, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, &CoercionError{Action: action, Param: key, Reason: fmt.Sprintf("expected integer, got %v", n)}
		}
		return int(n), nil
	case json.Number:
		v, err := n.Int64()
		if err != nil {
			return 0, &CoercionError{Action: action, Param: key, Reason: fmt.Sprintf("expected integer, got %q", n.String())}
		}
		return int(v), nil
	case string:
		v, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, &CoercionError{Action: action, Param: key, Reason: fmt.Sprintf("expected integer, got %q", n)}
		}
		return v, nil
	default:
		return 0, &CoercionError{Action: action, Param: key, Reason: fmt.Sprintf("expected integer, got %T", raw)}
	}
}
