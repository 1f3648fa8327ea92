package notify

import (
	"context"
)

// Kind names the notification being sent
type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindOrderCancelled    Kind = "order_cancelled"
	KindPaymentFailed     Kind = "payment_failed"
	KindStockLow          Kind = "stock_low"
	KindStockDepleted     Kind = "stock_depleted"
	KindStockReplenished  Kind = "stock_replenished"
)

// Notification is one message to deliver. Recipient is an owner key for
// shopper-facing kinds and empty for operational alerts, which go to the
// store operators.
type Notification struct {
	Kind      Kind
	Recipient string
	Subject   string
	Data      map[string]string
}

// Dispatcher delivers notifications. Delivery is fire-and-forget from the
// caller's point of view: failures are logged, never propagated into the
// flow that triggered them.
type Dispatcher interface {
	Send(ctx context.Context, n Notification) error
}
