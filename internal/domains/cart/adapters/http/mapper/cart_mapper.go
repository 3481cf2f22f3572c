package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/storely/cart-service/internal/domains/cart/domain"
)

// LineItem is the HTTP representation of a cart entry.
type LineItem struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image,omitempty"`
	Amount int             `json:"amount"`
}

// CartView wraps the line items for transport.
type CartView struct {
	Items []LineItem `json:"items"`
}

// UpdateAmountRequest carries the absolute quantity for a line item.
type UpdateAmountRequest struct {
	Amount int `json:"amount"`
}

// FromItems maps domain line items to the transport view.
func FromItems(items []domain.Product) CartView {
	view := CartView{Items: make([]LineItem, 0, len(items))}
	for _, item := range items {
		view.Items = append(view.Items, LineItem{
			ID:     item.ID,
			Title:  item.Title,
			Price:  item.Price,
			Image:  item.Image,
			Amount: item.Amount,
		})
	}
	return view
}
