package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

func testQuote() checkout.PriceQuote {
	return checkout.PriceQuote{
		Subtotal: decimal.NewFromInt(500),
		Shipping: decimal.Zero,
		Tax:      decimal.NewFromInt(40),
		Discount: decimal.NewFromInt(100),
		Total:    decimal.NewFromInt(440),
	}
}

func testItems() []OrderItem {
	return []OrderItem{{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Name:      "T-Shirt",
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(250),
		Amount:    decimal.NewFromInt(500),
		CreatedAt: time.Now(),
	}}
}

func TestNewOrder(t *testing.T) {
	userID := uuid.New()
	o, err := NewOrder(valueobject.MustUserIdentity(userID), testQuote(), "FLAT100",
		checkout.ShippingMethodStandard, "order_gw1", "pay_gw1", testItems())

	assert.NoError(t, err)
	assert.Equal(t, OrderStatusProcessing, o.Status)
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(440)))
	assert.Equal(t, o.ID, o.Items[0].OrderID)
	assert.NotEmpty(t, o.Number)

	events := o.GetDomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
}

func TestNewOrder_Invalid(t *testing.T) {
	identity := valueobject.MustGuestIdentity("sess-1")

	_, err := NewOrder(valueobject.Identity{}, testQuote(), "", checkout.ShippingMethodStandard, "gw", "pay", testItems())
	assert.Error(t, err)

	_, err = NewOrder(identity, testQuote(), "", checkout.ShippingMethodStandard, "gw", "pay", nil)
	assert.Error(t, err)

	_, err = NewOrder(identity, testQuote(), "", checkout.ShippingMethodStandard, "", "pay", testItems())
	assert.Error(t, err)
}

func TestOrder_Cancel(t *testing.T) {
	o, _ := NewOrder(valueobject.MustGuestIdentity("sess-1"), testQuote(), "",
		checkout.ShippingMethodStandard, "gw", "pay", testItems())
	o.ClearDomainEvents()

	err := o.Cancel("changed my mind")

	assert.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, o.Status)
	assert.Equal(t, "changed my mind", o.CancelReason)
	assert.NotNil(t, o.CancelledAt)

	events := o.GetDomainEvents()
	assert.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderCancelled, events[0].EventType())
}

func TestOrder_Cancel_AfterShipping(t *testing.T) {
	o, _ := NewOrder(valueobject.MustGuestIdentity("sess-1"), testQuote(), "",
		checkout.ShippingMethodStandard, "gw", "pay", testItems())
	assert.NoError(t, o.MarkShipped())

	err := o.Cancel("too late")

	assert.Error(t, err)
	assert.Equal(t, OrderStatusShipped, o.Status)
}

func TestOrder_Cancel_Twice(t *testing.T) {
	o, _ := NewOrder(valueobject.MustGuestIdentity("sess-1"), testQuote(), "",
		checkout.ShippingMethodStandard, "gw", "pay", testItems())
	assert.NoError(t, o.Cancel("first"))
	assert.Error(t, o.Cancel("second"))
}

func TestOrder_RefundLifecycle(t *testing.T) {
	o, _ := NewOrder(valueobject.MustGuestIdentity("sess-1"), testQuote(), "",
		checkout.ShippingMethodStandard, "gw", "pay", testItems())

	o.MarkRefundPending()
	assert.Equal(t, PaymentStatusRefundPending, o.PaymentStatus)

	o.MarkRefunded()
	assert.Equal(t, PaymentStatusRefunded, o.PaymentStatus)
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusProcessing))
}
