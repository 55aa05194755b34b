package proposer

import (
	"context"
	"errors"
	"fmt"

	"shopagent/internal/memory"
	"shopagent/internal/store"
	"shopagent/internal/tool"
)

// Shopper is a deterministic rule-based proposer that buys every product in
// one category. It pages through the catalog, adds each matching product at
// its full listed availability, and checks out, recovering from failures it
// observes in the history: a page-limit rejection makes it re-list with the
// store's maximum page size, and an insufficient-inventory checkout failure
// makes it remove the excess quantity and retry. When nothing matches the
// category, or the basket drains to empty during recovery, it gives up and
// signals completion.
type Shopper struct {
	// Category selects which products to buy, e.g. "gpu".
	Category string

	// InitialLimit is the page size of the first listing request. The demo
	// sets it above the store's cap to exercise page-limit recovery. Zero
	// means store.MaxPageSize.
	InitialLimit int
}

// ProposeNext implements Proposer by replaying the history into a view of
// what the shopper has learned so far and deriving the next action from it.
func (s *Shopper) ProposeNext(_ context.Context, _ string, history []memory.Step) (Proposal, error) {
	v := s.review(history)

	if last, ok := lastStep(history); ok && last.Action.Name == tool.ActionCheckoutBasket {
		if last.Observation.Succeeded() {
			return Proposal{
				GoalAchieved: true,
				Rationale:    "checkout succeeded; every available product in the category has been purchased",
			}, nil
		}
		if !last.Observation.Rejected() {
			var insufficient *store.InsufficientInventoryError
			if errors.As(last.Observation.Result.Err, &insufficient) {
				excess := insufficient.Requested - insufficient.Available
				return Proposal{
					Rationale: fmt.Sprintf("only %d of %s available; removing the %d excess before retrying checkout",
						insufficient.Available, insufficient.SKU, excess),
					Action: memory.Action{
						Name:   tool.ActionRemoveFromBasket,
						Params: map[string]any{"sku": insufficient.SKU, "amount": excess},
					},
				}, nil
			}
			if errors.Is(last.Observation.Result.Err, store.ErrEmptyBasket) {
				return Proposal{
					GoalAchieved: true,
					Rationale:    "basket empty at checkout; nothing left to purchase",
				}, nil
			}
		}
	}

	if !v.listingComplete {
		limit := s.InitialLimit
		if limit <= 0 || v.pageLimitHit {
			limit = store.MaxPageSize
		}
		return Proposal{
			Rationale: fmt.Sprintf("listing the catalog from offset %d to find %s products", v.nextOffset, s.Category),
			Action: memory.Action{
				Name:   tool.ActionListProducts,
				Params: map[string]any{"offset": v.nextOffset, "limit": limit},
			},
		}, nil
	}

	for _, listing := range v.targets {
		if v.added[listing.SKU] || listing.Available == 0 {
			continue
		}
		return Proposal{
			Rationale: fmt.Sprintf("adding all %d available units of %s (%s)", listing.Available, listing.SKU, listing.Name),
			Action: memory.Action{
				Name:   tool.ActionAddToBasket,
				Params: map[string]any{"sku": listing.SKU, "amount": listing.Available},
			},
		}, nil
	}

	if !v.anythingAdded {
		return Proposal{
			GoalAchieved: true,
			Rationale:    fmt.Sprintf("no %s products with available inventory; nothing to buy", s.Category),
		}, nil
	}

	return Proposal{
		Rationale: "basket holds every available matching product; checking out",
		Action:    memory.Action{Name: tool.ActionCheckoutBasket},
	}, nil
}

// view is what the shopper has learned from the history so far.
type view struct {
	targets         []store.Listing // matching products in listing order
	added           map[string]bool // SKUs successfully added to the basket
	anythingAdded   bool
	nextOffset      int
	listingComplete bool
	pageLimitHit    bool
}

func (s *Shopper) review(history []memory.Step) view {
	v := view{added: make(map[string]bool)}
	seen := make(map[string]bool)

	for _, step := range history {
		if step.Observation.Rejected() {
			continue
		}
		switch step.Action.Name {
		case tool.ActionListProducts:
			if !step.Observation.Succeeded() {
				var pageLimit *store.PageLimitError
				if errors.As(step.Observation.Result.Err, &pageLimit) {
					v.pageLimitHit = true
				}
				continue
			}
			page, ok := step.Observation.Result.Payload.(store.Page)
			if !ok {
				continue
			}
			for _, listing := range page.Products {
				if listing.Category == s.Category && !seen[listing.SKU] {
					seen[listing.SKU] = true
					v.targets = append(v.targets, listing)
				}
			}
			if page.NextOffset == store.NoMorePages {
				v.listingComplete = true
			} else {
				v.nextOffset = page.NextOffset
			}
		case tool.ActionAddToBasket:
			if step.Observation.Succeeded() {
				if sku, ok := step.Action.Params["sku"].(string); ok {
					v.added[sku] = true
					v.anythingAdded = true
				}
			}
		}
	}
	return v
}

func lastStep(history []memory.Step) (memory.Step, bool) {
	if len(history) == 0 {
		return memory.Step{}, false
	}
	return history[len(history)-1], true
}
