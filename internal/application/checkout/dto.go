package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/order"
)

// CheckoutRequest starts a checkout for the shopper's current cart
type CheckoutRequest struct {
	ShippingMethod checkout.ShippingMethod `json:"shipping_method" binding:"required"`
	CouponCode     string                  `json:"coupon_code"`
}

// CheckoutResponse carries the gateway order the client pays against and
// the authoritative price breakdown
type CheckoutResponse struct {
	GatewayOrderID string              `json:"gateway_order_id"`
	AmountSubunits int64               `json:"amount_subunits"`
	Currency       string              `json:"currency"`
	Quote          checkout.PriceQuote `json:"quote"`
	ReservedUntil  time.Time           `json:"reserved_until"`
}

// VerifyPaymentRequest is the gateway callback payload the client relays
// after paying. Shipping method and coupon are echoed so the server can
// recompute the quote it charged.
type VerifyPaymentRequest struct {
	GatewayOrderID   string                  `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string                  `json:"gateway_payment_id" binding:"required"`
	Signature        string                  `json:"signature" binding:"required"`
	ShippingMethod   checkout.ShippingMethod `json:"shipping_method" binding:"required"`
	CouponCode       string                  `json:"coupon_code"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// RefundStatus reports what happened to the refund when an order was cancelled
type RefundStatus string

const (
	RefundStatusInitiated     RefundStatus = "initiated"
	RefundStatusFailed        RefundStatus = "failed"
	RefundStatusNotConfigured RefundStatus = "not_configured"
)

// CancelOrderResponse reports the cancelled order and the refund outcome
type CancelOrderResponse struct {
	Order  *OrderView   `json:"order"`
	Refund RefundStatus `json:"refund"`
}

// OrderItemView is one purchased line as returned to the shopper
type OrderItemView struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// OrderView is an order as returned to the shopper
type OrderView struct {
	ID             uuid.UUID           `json:"id"`
	Number         string              `json:"number"`
	Status         order.OrderStatus   `json:"status"`
	PaymentStatus  order.PaymentStatus `json:"payment_status"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	ShippingFee    decimal.Decimal     `json:"shipping_fee"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	CouponCode     string              `json:"coupon_code,omitempty"`
	Items          []OrderItemView     `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
}

// NewOrderView builds an OrderView from the order aggregate
func NewOrderView(o *order.Order) *OrderView {
	items := make([]OrderItemView, len(o.Items))
	for idx := range o.Items {
		item := &o.Items[idx]
		items[idx] = OrderItemView{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return &OrderView{
		ID:             o.ID,
		Number:         o.Number,
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		Subtotal:       o.Subtotal,
		ShippingFee:    o.ShippingFee,
		TaxAmount:      o.TaxAmount,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		CouponCode:     o.CouponCode,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}
