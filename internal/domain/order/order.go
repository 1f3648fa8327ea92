package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents the payment lifecycle of an order
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusRefundPending PaymentStatus = "refund_pending"
	PaymentStatusRefundFailed  PaymentStatus = "refund_failed"
	PaymentStatusRefunded      PaymentStatus = "refunded"
)

// Order is an immutable record of a completed purchase. It is created only
// after the payment gateway verified the payment, so there is no draft state;
// orders are born paid and in processing.
type Order struct {
	shared.BaseAggregateRoot
	Number    string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID    *uuid.UUID `gorm:"type:uuid;index:idx_order_user"`
	SessionID *string    `gorm:"type:varchar(100);index:idx_order_session"`

	Status        OrderStatus   `gorm:"type:varchar(20);not null;index"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ShippingFee    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CouponCode     string          `gorm:"type:varchar(50)"`

	ShippingMethod checkout.ShippingMethod `gorm:"type:varchar(20);not null"`

	// Gateway references link the order back to the payment provider
	GatewayOrderID   string `gorm:"type:varchar(100);not null;index"`
	GatewayPaymentID string `gorm:"type:varchar(100);not null;uniqueIndex"`

	CancelReason string     `gorm:"type:varchar(255)"`
	CancelledAt  *time.Time `gorm:"type:timestamp"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a purchased line, frozen at the prices the shopper paid
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID *uuid.UUID      `gorm:"type:uuid"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderNumber generates a human-readable order number
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), uuid.NewString()[:8])
}

// NewOrder creates a paid order from a verified checkout. The quote carries
// the authoritative amounts; the items carry the purchased lines.
func NewOrder(
	identity valueobject.Identity,
	quote checkout.PriceQuote,
	couponCode string,
	shippingMethod checkout.ShippingMethod,
	gatewayOrderID, gatewayPaymentID string,
	items []OrderItem,
) (*Order, error) {
	if identity.IsZero() {
		return nil, shared.NewDomainError("INVALID_IDENTITY", "Order owner identity is required")
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if gatewayOrderID == "" || gatewayPaymentID == "" {
		return nil, shared.NewDomainError("INVALID_GATEWAY_REFERENCE", "Gateway order and payment references are required")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            NewOrderNumber(time.Now()),
		Status:            OrderStatusProcessing,
		PaymentStatus:     PaymentStatusPaid,
		Subtotal:          quote.Subtotal,
		ShippingFee:       quote.Shipping,
		TaxAmount:         quote.Tax,
		DiscountAmount:    quote.Discount,
		TotalAmount:       quote.Total,
		CouponCode:        couponCode,
		ShippingMethod:    shippingMethod,
		GatewayOrderID:    gatewayOrderID,
		GatewayPaymentID:  gatewayPaymentID,
		Items:             items,
	}
	if userID, ok := identity.UserID(); ok {
		o.UserID = &userID
	}
	if sessionID, ok := identity.SessionID(); ok {
		o.SessionID = &sessionID
	}
	for idx := range o.Items {
		o.Items[idx].OrderID = o.ID
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// Identity reconstructs the owner identity from the stored columns
func (o *Order) Identity() valueobject.Identity {
	if o.UserID != nil {
		return valueobject.MustUserIdentity(*o.UserID)
	}
	if o.SessionID != nil {
		return valueobject.MustGuestIdentity(*o.SessionID)
	}
	return valueobject.Identity{}
}

// CanCancel returns true if the order may still be cancelled by the shopper
func (o *Order) CanCancel() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

// Cancel cancels the order. Only orders that have not shipped can be
// cancelled; the refund outcome is tracked separately on PaymentStatus.
func (o *Order) Cancel(reason string) error {
	if !o.CanCancel() {
		return shared.NewDomainError("ORDER_NOT_CANCELLABLE",
			fmt.Sprintf("Order in status %s cannot be cancelled", o.Status))
	}
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.UpdatedAt = now
	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))
	return nil
}

// MarkRefundPending records that a refund was initiated at the gateway
func (o *Order) MarkRefundPending() {
	o.PaymentStatus = PaymentStatusRefundPending
	o.UpdatedAt = time.Now()
}

// MarkRefundFailed records that the gateway rejected the refund request.
// Support follows up manually from this state.
func (o *Order) MarkRefundFailed() {
	o.PaymentStatus = PaymentStatusRefundFailed
	o.UpdatedAt = time.Now()
}

// MarkRefunded records that the gateway settled the refund
func (o *Order) MarkRefunded() {
	o.PaymentStatus = PaymentStatusRefunded
	o.UpdatedAt = time.Now()
}

// MarkShipped moves the order to shipped
func (o *Order) MarkShipped() error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Order in status %s cannot be shipped", o.Status))
	}
	o.Status = OrderStatusShipped
	o.UpdatedAt = time.Now()
	return nil
}

// MarkDelivered moves the order to delivered
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Order in status %s cannot be delivered", o.Status))
	}
	o.Status = OrderStatusDelivered
	o.UpdatedAt = time.Now()
	return nil
}
