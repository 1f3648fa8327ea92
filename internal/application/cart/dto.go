package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/cart"
)

// AddItemRequest adds a product or variant to the shopper's cart
type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	VariantID *uuid.UUID      `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// UpdateItemRequest changes a cart line quantity; zero removes the line
type UpdateItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// ItemView is one cart line as shown to the shopper
type ItemView struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// View is the cart as shown to the shopper
type View struct {
	ID       uuid.UUID       `json:"id"`
	Items    []ItemView      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// NewView builds a View from the cart aggregate
func NewView(c *cart.Cart) *View {
	items := make([]ItemView, len(c.Items))
	for idx := range c.Items {
		item := &c.Items[idx]
		items[idx] = ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount(),
		}
	}
	return &View{
		ID:       c.ID,
		Items:    items,
		Subtotal: c.DisplayedSubtotal,
	}
}
