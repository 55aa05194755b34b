// Package store implements the in-memory e-commerce resource store: the
// product catalog, per-SKU inventory levels, and the shopping basket.
package store

import (
	"fmt"
	"sync"
)

// MaxPageSize is the largest page the catalog listing will serve.
const MaxPageSize = 3

// NoMorePages is the NextOffset sentinel returned when the listing has
// reached the end of the catalog. It is distinct from 0, which is a valid
// offset.
const NoMorePages = -1

// Product is an immutable catalog entry.
type Product struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    int    `json:"price"` // unit price in cents
	Category string `json:"category"`
}

// Listing pairs a catalog entry with its current availability.
type Listing struct {
	Product
	Available int `json:"available"`
}

// Page is one page of catalog listings.
type Page struct {
	Products   []Listing `json:"products"`
	NextOffset int       `json:"next_offset"`
}

// BasketItem is a basket entry joined against the catalog.
type BasketItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"` // unit price in cents
}

// Receipt reports the line items and order total of a committed checkout.
type Receipt struct {
	Items []BasketItem `json:"items"`
	Total int          `json:"total"` // in cents
}

// SeedProduct describes one catalog entry plus its starting inventory level.
type SeedProduct struct {
	Product
	Available int
}

// Store owns the catalog, inventory, and basket. All operations are atomic
// with respect to each other: a single mutex covers every
// read-validate-mutate sequence, so the store may be shared across sessions.
type Store struct {
	mu        sync.Mutex
	catalog   []Product // stable catalog order
	inventory map[string]int
	basket    map[string]int

	raceOverrides map[string]int
	raceApplied   bool
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithRaceSimulation overrides inventory levels immediately before the first
// checkout attempt, simulating a concurrent customer draining stock between
// basket assembly and checkout. SKUs not in the catalog are ignored.
func WithRaceSimulation(overrides map[string]int) Option {
	return func(s *Store) {
		s.raceOverrides = make(map[string]int, len(overrides))
		for sku, available := range overrides {
			s.raceOverrides[sku] = available
		}
	}
}

// New creates a Store from seed data. Seed SKUs must be non-empty and unique,
// prices and inventory levels non-negative.
func New(seed []SeedProduct, opts ...Option) (*Store, error) {
	s := &Store{
		catalog:   make([]Product, 0, len(seed)),
		inventory: make(map[string]int, len(seed)),
		basket:    make(map[string]int),
	}
	for _, sp := range seed {
		if sp.SKU == "" {
			return nil, fmt.Errorf("seed product %q has empty SKU", sp.Name)
		}
		if _, dup := s.inventory[sp.SKU]; dup {
			return nil, fmt.Errorf("duplicate SKU %q in seed", sp.SKU)
		}
		if sp.Price < 0 {
			return nil, fmt.Errorf("product %q has negative price %d", sp.SKU, sp.Price)
		}
		if sp.Available < 0 {
			return nil, fmt.Errorf("product %q has negative inventory %d", sp.SKU, sp.Available)
		}
		s.catalog = append(s.catalog, sp.Product)
		s.inventory[sp.SKU] = sp.Available
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultSeed returns the demo catalog: a handful of PC components, two of
// which are GPUs.
func DefaultSeed() []SeedProduct {
	return []SeedProduct{
		{Product{SKU: "rc-1200", Name: "Remote Control Unit", Price: 2500, Category: "accessory"}, 10},
		{Product{SKU: "gpu-h100", Name: "Nvidia H100", Price: 20000, Category: "gpu"}, 3},
		{Product{SKU: "gpu-a100", Name: "Nvidia A100", Price: 11950, Category: "gpu"}, 4},
		{Product{SKU: "mb-450", Name: "Motherboard X45", Price: 500, Category: "motherboard"}, 7},
		{Product{SKU: "cpu-001", Name: "Intel Xeon", Price: 3500, Category: "cpu"}, 15},
		{Product{SKU: "ram-ddr5", Name: "DDR5 RAM 64GB", Price: 800, Category: "memory"}, 20},
		{Product{SKU: "ssd-2tb", Name: "NVMe SSD 2TB", Price: 250, Category: "storage"}, 12},
		{Product{SKU: "psu-1200w", Name: "Power Supply 1200W", Price: 300, Category: "power"}, 8},
	}
}

// ListProducts returns up to limit catalog entries starting at offset, in
// stable catalog order, together with the offset of the next page
// (NoMorePages once the catalog is exhausted). A limit above MaxPageSize
// fails with *PageLimitError and alters nothing.
func (s *Store) ListProducts(offset, limit int) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit > MaxPageSize {
		return Page{}, &PageLimitError{Limit: limit}
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	end := offset + limit
	if offset > len(s.catalog) {
		offset = len(s.catalog)
	}
	if end > len(s.catalog) {
		end = len(s.catalog)
	}

	page := Page{Products: make([]Listing, 0, end-offset)}
	for _, p := range s.catalog[offset:end] {
		page.Products = append(page.Products, Listing{Product: p, Available: s.inventory[p.SKU]})
	}
	if end < len(s.catalog) {
		page.NextOffset = end
	} else {
		page.NextOffset = NoMorePages
	}
	return page, nil
}

// AddToBasket increments the basket quantity for sku by amount, creating the
// entry if absent. Inventory is not checked here: overcommitting the basket
// is allowed and caught at checkout. Fails with *UnknownProductError if sku
// is not in the catalog. amount must be positive; the dispatcher validates
// this before calling.
func (s *Store) AddToBasket(sku string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inCatalog(sku) {
		return &UnknownProductError{SKU: sku}
	}
	s.basket[sku] += amount
	return nil
}

// RemoveFromBasket decrements the basket quantity for sku by amount, clamped
// at zero; an entry reduced to zero is deleted. Removing more than the
// current quantity is not an error (the policy is "remove up to all").
// Fails with *NotInBasketError if sku has no basket entry.
func (s *Store) RemoveFromBasket(sku string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quantity, ok := s.basket[sku]
	if !ok {
		return &NotInBasketError{SKU: sku}
	}
	if quantity-amount <= 0 {
		delete(s.basket, sku)
	} else {
		s.basket[sku] = quantity - amount
	}
	return nil
}

// ViewBasket returns the current basket joined against the catalog, in
// stable catalog order.
func (s *Store) ViewBasket() []BasketItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basketItems()
}

// Checkout commits the basket against inventory, all-or-nothing. If any SKU's
// basket quantity exceeds its inventory level, it fails with
// *InsufficientInventoryError for the first such SKU in catalog order and
// mutates nothing. Otherwise it decrements inventory by the basket amounts,
// clears the basket, and returns a receipt. An empty basket fails with
// ErrEmptyBasket.
func (s *Store) Checkout() (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.basket) == 0 {
		return Receipt{}, ErrEmptyBasket
	}

	if s.raceOverrides != nil && !s.raceApplied {
		s.raceApplied = true
		for sku, available := range s.raceOverrides {
			if _, ok := s.inventory[sku]; ok {
				s.inventory[sku] = available
			}
		}
	}

	for _, p := range s.catalog {
		quantity, ok := s.basket[p.SKU]
		if !ok {
			continue
		}
		if quantity > s.inventory[p.SKU] {
			return Receipt{}, &InsufficientInventoryError{
				SKU:       p.SKU,
				Available: s.inventory[p.SKU],
				Requested: quantity,
			}
		}
	}

	receipt := Receipt{Items: s.basketItems()}
	for _, item := range receipt.Items {
		s.inventory[item.SKU] -= item.Quantity
		receipt.Total += item.Price * item.Quantity
	}
	s.basket = make(map[string]int)
	return receipt, nil
}

// Snapshot returns the full catalog with current availability, in stable
// catalog order.
func (s *Store) Snapshot() []Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	listings := make([]Listing, 0, len(s.catalog))
	for _, p := range s.catalog {
		listings = append(listings, Listing{Product: p, Available: s.inventory[p.SKU]})
	}
	return listings
}

func (s *Store) inCatalog(sku string) bool {
	_, ok := s.inventory[sku]
	return ok
}

// basketItems joins the basket against the catalog in catalog order.
// Caller must hold s.mu.
func (s *Store) basketItems() []BasketItem {
	items := make([]BasketItem, 0, len(s.basket))
	for _, p := range s.catalog {
		quantity, ok := s.basket[p.SKU]
		if !ok {
			continue
		}
		items = append(items, BasketItem{
			SKU:      p.SKU,
			Name:     p.Name,
			Quantity: quantity,
			Price:    p.Price,
		})
	}
	return items
}
