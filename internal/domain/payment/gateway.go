package payment

import (
	"context"
	"errors"
)

// Gateway errors
var (
	ErrGatewayNotConfigured   = errors.New("payment: gateway not configured")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
	ErrGatewayOrderNotFound   = errors.New("payment: gateway order not found")
	ErrRefundRejected         = errors.New("payment: refund rejected by gateway")
)

// CreateOrderRequest asks the gateway to open a payment order. Amounts are
// expressed in the currency's smallest subunit (paise for INR).
type CreateOrderRequest struct {
	AmountSubunits int64
	Currency       string
	Receipt        string
	Notes          map[string]string
}

// GatewayOrder is the provider-side payment order the shopper pays against
type GatewayOrder struct {
	ID             string
	AmountSubunits int64
	Currency       string
	Receipt        string
	Status         string
}

// RefundRequest asks the gateway to refund a captured payment
type RefundRequest struct {
	PaymentID      string
	AmountSubunits int64
	Notes          map[string]string
}

// Refund is the gateway's record of a refund
type Refund struct {
	ID        string
	PaymentID string
	Status    string
}

// Gateway abstracts the payment provider. The checkout flow opens a gateway
// order before payment and verifies the provider's callback signature after;
// cancellation issues refunds through the same port.
type Gateway interface {
	// IsConfigured reports whether provider credentials are present. Flows
	// degrade gracefully when they are not: checkout fails fast, refunds
	// are skipped and flagged for manual follow-up.
	IsConfigured() bool
	// CreateOrder opens a payment order at the provider
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error)
	// FetchOrder reads a payment order back from the provider
	FetchOrder(ctx context.Context, gatewayOrderID string) (*GatewayOrder, error)
	// VerifySignature checks the callback signature the provider sent for a
	// completed payment. It never calls the network.
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	// Refund refunds a captured payment
	Refund(ctx context.Context, req RefundRequest) (*Refund, error)
}
