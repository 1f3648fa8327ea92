package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderCancelled = "OrderCancelled"
	EventTypePaymentFailed  = "PaymentFailed"
)

// OrderCreatedEvent is raised when a verified payment produces an order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OwnerKey    string          `json:"owner_key"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		TotalAmount:     o.TotalAmount,
		OwnerKey:        o.Identity().Key(),
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
	OwnerKey    string    `json:"owner_key"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		Reason:          reason,
		OwnerKey:        o.Identity().Key(),
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}

// PaymentFailedEvent is raised when a payment callback fails verification.
// No order exists at that point, so the event carries the gateway references.
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Reason           string `json:"reason"`
	OwnerKey         string `json:"owner_key"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(gatewayOrderID, gatewayPaymentID, reason, ownerKey string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateTypeOrder, uuid.Nil),
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: gatewayPaymentID,
		Reason:           reason,
		OwnerKey:         ownerKey,
	}
}

// EventType returns the event type name
func (e *PaymentFailedEvent) EventType() string {
	return EventTypePaymentFailed
}
