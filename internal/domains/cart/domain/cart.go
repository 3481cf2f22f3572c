package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrDuplicateProduct = errors.New("product already present in cart")
)

// Product is a catalog record merged with the quantity chosen for the cart.
type Product struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image,omitempty"`
	Amount int             `json:"amount"`
}

// Validate enforces the line-item invariants.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Stock is the externally owned available-inventory figure for a product.
// The cart only ever reads it.
type Stock struct {
	ProductID int64 `json:"id"`
	Amount    int   `json:"amount"`
}

// Covers reports whether the available amount satisfies the requested one.
func (s Stock) Covers(requested int) bool {
	return s.Amount >= requested
}

// Cart is an ordered collection of products, unique by product id.
// All mutating operations return a new value holding freshly copied
// entries, so previously returned snapshots are never aliased.
type Cart struct {
	items []Product
}

// NewCart builds a cart from persisted line items, validating every entry
// and the uniqueness invariant.
func NewCart(items []Product) (Cart, error) {
	seen := make(map[int64]struct{}, len(items))
	copied := make([]Product, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Cart{}, err
		}
		if _, dup := seen[item.ID]; dup {
			return Cart{}, ErrDuplicateProduct
		}
		seen[item.ID] = struct{}{}
		copied = append(copied, item)
	}
	return Cart{items: copied}, nil
}

// Items returns a copy of the line items in insertion order.
func (c Cart) Items() []Product {
	items := make([]Product, len(c.items))
	copy(items, c.items)
	return items
}

// Len reports the number of distinct products in the cart.
func (c Cart) Len() int {
	return len(c.items)
}

// Find returns the line item for the given product id.
func (c Cart) Find(productID int64) (Product, bool) {
	for _, item := range c.items {
		if item.ID == productID {
			return item, true
		}
	}
	return Product{}, false
}

// Contains reports whether a line item exists for the given product id.
func (c Cart) Contains(productID int64) bool {
	_, ok := c.Find(productID)
	return ok
}

// WithProduct appends a new line item. The product must not already be in
// the cart; quantity changes go through WithAmount instead.
func (c Cart) WithProduct(product Product) (Cart, error) {
	if err := product.Validate(); err != nil {
		return Cart{}, err
	}
	if c.Contains(product.ID) {
		return Cart{}, ErrDuplicateProduct
	}
	items := make([]Product, 0, len(c.items)+1)
	items = append(items, c.items...)
	items = append(items, product)
	return Cart{items: items}, nil
}

// WithAmount sets the quantity of an existing line item. The second return
// value is false when the product is not in the cart.
func (c Cart) WithAmount(productID int64, amount int) (Cart, bool, error) {
	if amount <= 0 {
		return Cart{}, false, ErrInvalidAmount
	}
	if !c.Contains(productID) {
		return Cart{}, false, nil
	}
	items := make([]Product, len(c.items))
	copy(items, c.items)
	for i := range items {
		if items[i].ID == productID {
			items[i].Amount = amount
		}
	}
	return Cart{items: items}, true, nil
}

// Without removes the line item for the given product id. The second return
// value is false when the product is not in the cart.
func (c Cart) Without(productID int64) (Cart, bool) {
	if !c.Contains(productID) {
		return Cart{}, false
	}
	items := make([]Product, 0, len(c.items)-1)
	for _, item := range c.items {
		if item.ID != productID {
			items = append(items, item)
		}
	}
	return Cart{items: items}, true
}
