package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// Cart holds a shopper's pending purchase. Lines capture the unit price at
// the time the cart was last priced; the checkout validator compares those
// captured prices against the live catalog before payment.
type Cart struct {
	shared.BaseAggregateRoot
	UserID    *uuid.UUID `gorm:"type:uuid;index:idx_cart_user"`
	SessionID *string    `gorm:"type:varchar(100);index:idx_cart_session"`
	// DisplayedSubtotal is the subtotal last shown to the shopper. The
	// checkout validator re-derives the subtotal from the lines and rejects
	// the cart when the two drift apart.
	DisplayedSubtotal decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	Items []CartItem `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a single cart line
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID *uuid.UUID      `gorm:"type:uuid"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"` // captured at pricing time
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Amount returns quantity * captured unit price
func (i *CartItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// NewCart creates an empty cart owned by the given identity
func NewCart(identity valueobject.Identity) (*Cart, error) {
	if identity.IsZero() {
		return nil, shared.NewDomainError("INVALID_IDENTITY", "Cart owner identity is required")
	}
	c := &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DisplayedSubtotal: decimal.Zero,
		Items:             make([]CartItem, 0),
	}
	if userID, ok := identity.UserID(); ok {
		c.UserID = &userID
	}
	if sessionID, ok := identity.SessionID(); ok {
		c.SessionID = &sessionID
	}
	return c, nil
}

// Identity reconstructs the owner identity from the stored columns
func (c *Cart) Identity() valueobject.Identity {
	if c.UserID != nil {
		return valueobject.MustUserIdentity(*c.UserID)
	}
	if c.SessionID != nil {
		return valueobject.MustGuestIdentity(*c.SessionID)
	}
	return valueobject.Identity{}
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddItem adds a line or increments quantity on an existing line for the
// same product/variant, capturing the given unit price
func (c *Cart) AddItem(productID uuid.UUID, variantID *uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID && sameVariant(c.Items[idx].VariantID, variantID) {
			c.Items[idx].Quantity = c.Items[idx].Quantity.Add(quantity)
			c.Items[idx].UnitPrice = unitPrice
			c.Items[idx].UpdatedAt = now
			c.reprice()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	})
	c.reprice()
	return nil
}

// UpdateItemQuantity changes a line quantity; zero removes the line
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			if quantity.IsZero() {
				c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			} else {
				c.Items[idx].Quantity = quantity
				c.Items[idx].UpdatedAt = time.Now()
			}
			c.reprice()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
}

// Clear removes all lines from the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.reprice()
}

// Subtotal recomputes the subtotal from the current lines
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for idx := range c.Items {
		subtotal = subtotal.Add(c.Items[idx].Amount())
	}
	return subtotal
}

// Snapshot returns an immutable copy of the cart lines for checkout
func (c *Cart) Snapshot() []SnapshotLine {
	lines := make([]SnapshotLine, len(c.Items))
	for idx, item := range c.Items {
		lines[idx] = SnapshotLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return lines
}

// reprice refreshes DisplayedSubtotal from the lines
func (c *Cart) reprice() {
	c.DisplayedSubtotal = c.Subtotal()
	c.UpdatedAt = time.Now()
}

// SnapshotLine is an immutable copy of a cart line captured at checkout time
type SnapshotLine struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Amount returns quantity * captured unit price
func (l SnapshotLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

func sameVariant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
