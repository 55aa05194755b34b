package store

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Pagination property: for any offset >= 0 and limit in [1, MaxPageSize],
// ListProducts returns the catalog window [offset, offset+limit) and the
// correct NextOffset.
func TestPaginationProperty_Window(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	seed := DefaultSeed()
	s := mustNew(t, seed)
	size := len(seed)

	properties.Property("returns entries [offset, offset+limit) in catalog order", prop.ForAll(
		func(offset, limit int) bool {
			page, err := s.ListProducts(offset, limit)
			if err != nil {
				return false
			}
			end := offset + limit
			if end > size {
				end = size
			}
			wantCount := end - offset
			if offset >= size {
				wantCount = 0
			}
			if len(page.Products) != wantCount {
				return false
			}
			for i, listing := range page.Products {
				if listing.SKU != seed[offset+i].SKU {
					return false
				}
			}
			returned := len(page.Products)
			if offset+returned >= size {
				return page.NextOffset == NoMorePages
			}
			return page.NextOffset == offset+returned
		},
		gen.IntRange(0, 12),
		gen.IntRange(1, MaxPageSize),
	))

	properties.Property("limit above MaxPageSize always fails and mutates nothing", prop.ForAll(
		func(offset, limit int) bool {
			before := s.Snapshot()
			_, err := s.ListProducts(offset, limit)
			if _, ok := err.(*PageLimitError); !ok {
				return false
			}
			return reflect.DeepEqual(before, s.Snapshot())
		},
		gen.IntRange(0, 12),
		gen.IntRange(MaxPageSize+1, 50),
	))

	properties.TestingRun(t)
}

// Idempotent observation property: repeating a read with identical arguments
// and no intervening mutation yields identical results.
func TestObservationProperty_Idempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	s := mustNew(t, DefaultSeed())
	if err := s.AddToBasket("gpu-h100", 2); err != nil {
		t.Fatal(err)
	}

	properties.Property("ListProducts repeats identically", prop.ForAll(
		func(offset, limit int) bool {
			first, err1 := s.ListProducts(offset, limit)
			second, err2 := s.ListProducts(offset, limit)
			if (err1 == nil) != (err2 == nil) {
				return false
			}
			return reflect.DeepEqual(first, second)
		},
		gen.IntRange(0, 12),
		gen.IntRange(1, MaxPageSize),
	))

	properties.Property("ViewBasket repeats identically", prop.ForAll(
		func(int) bool {
			return reflect.DeepEqual(s.ViewBasket(), s.ViewBasket())
		},
		gen.IntRange(0, 1),
	))

	properties.TestingRun(t)
}

// basketOp is one raw basket mutation for the consistency property.
type basketOp struct {
	add    bool
	sku    string
	amount int
}

// Basket consistency property: after any sequence of add/remove calls, every
// basket key is a catalog SKU and every quantity is positive.
func TestBasketProperty_Consistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	skus := []string{"gpu-h100", "gpu-a100", "cpu-001", "no-such-sku"}

	genOp := gopter.CombineGens(
		gen.Bool(),
		gen.IntRange(0, len(skus)-1),
		gen.IntRange(1, 10),
	).Map(func(values []interface{}) basketOp {
		return basketOp{
			add:    values[0].(bool),
			sku:    skus[values[1].(int)],
			amount: values[2].(int),
		}
	})

	properties.Property("basket keys exist in catalog with positive quantities", prop.ForAll(
		func(ops []basketOp) bool {
			s := mustNew(t, DefaultSeed())
			catalog := make(map[string]bool)
			for _, l := range s.Snapshot() {
				catalog[l.SKU] = true
			}
			for _, op := range ops {
				if op.add {
					_ = s.AddToBasket(op.sku, op.amount)
				} else {
					_ = s.RemoveFromBasket(op.sku, op.amount)
				}
			}
			for _, item := range s.ViewBasket() {
				if !catalog[item.SKU] || item.Quantity <= 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genOp),
	))

	properties.TestingRun(t)
}

// Checkout atomicity property: with an arbitrary basket, either checkout
// fails leaving inventory and basket unchanged, or it succeeds, inventory
// drops by exactly the basket amounts, and the basket empties.
func TestCheckoutProperty_Atomicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("all-or-nothing commit", prop.ForAll(
		func(h100, a100 int) bool {
			s := mustNew(t, gpuSeed())
			if h100 > 0 {
				if err := s.AddToBasket("gpu-h100", h100); err != nil {
					return false
				}
			}
			if a100 > 0 {
				if err := s.AddToBasket("gpu-a100", a100); err != nil {
					return false
				}
			}

			beforeInventory := s.Snapshot()
			beforeBasket := s.ViewBasket()
			receipt, err := s.Checkout()

			satisfiable := h100 <= 3 && a100 <= 4 && (h100 > 0 || a100 > 0)
			if !satisfiable {
				if err == nil {
					return false
				}
				return reflect.DeepEqual(beforeInventory, s.Snapshot()) &&
					reflect.DeepEqual(beforeBasket, s.ViewBasket())
			}

			if err != nil {
				return false
			}
			if len(s.ViewBasket()) != 0 {
				return false
			}
			after := s.Snapshot()
			if after[0].Available != 3-h100 || after[1].Available != 4-a100 {
				return false
			}
			return receipt.Total == h100*20000+a100*11950
		},
		gen.IntRange(0, 8),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}
