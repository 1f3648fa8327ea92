package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/notify"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
)

// OrderLifecycleHandler turns order events into shopper notifications.
// Delivery failures are logged and dropped; notifications never affect the
// flow that raised the event.
type OrderLifecycleHandler struct {
	dispatcher notify.Dispatcher
	logger     *zap.Logger
}

// NewOrderLifecycleHandler creates a new OrderLifecycleHandler
func NewOrderLifecycleHandler(dispatcher notify.Dispatcher, logger *zap.Logger) *OrderLifecycleHandler {
	return &OrderLifecycleHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderLifecycleHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderCancelled,
		order.EventTypePaymentFailed,
	}
}

// Handle processes one order event
func (h *OrderLifecycleHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var n notify.Notification

	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		n = notify.Notification{
			Kind:      notify.KindOrderConfirmation,
			Recipient: e.OwnerKey,
			Subject:   "Order " + e.OrderNumber + " confirmed",
			Data: map[string]string{
				"order_number": e.OrderNumber,
				"total_amount": e.TotalAmount.String(),
			},
		}
	case *order.OrderCancelledEvent:
		n = notify.Notification{
			Kind:      notify.KindOrderCancelled,
			Recipient: e.OwnerKey,
			Subject:   "Order " + e.OrderNumber + " cancelled",
			Data: map[string]string{
				"order_number": e.OrderNumber,
				"reason":       e.Reason,
			},
		}
	case *order.PaymentFailedEvent:
		n = notify.Notification{
			Kind:      notify.KindPaymentFailed,
			Recipient: e.OwnerKey,
			Subject:   "Payment could not be verified",
			Data: map[string]string{
				"gateway_order_id": e.GatewayOrderID,
				"reason":           e.Reason,
			},
		}
	default:
		return nil
	}

	if err := h.dispatcher.Send(ctx, n); err != nil {
		h.logger.Error("Failed to send order notification",
			zap.String("kind", string(n.Kind)),
			zap.String("recipient", n.Recipient),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*OrderLifecycleHandler)(nil)
