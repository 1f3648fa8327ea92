package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/notify"
	"github.com/shopfront/backend/internal/domain/shared"
)

// StockAlertHandler turns stock threshold events into operator alerts
type StockAlertHandler struct {
	dispatcher notify.Dispatcher
	logger     *zap.Logger
}

// NewStockAlertHandler creates a new StockAlertHandler
func NewStockAlertHandler(dispatcher notify.Dispatcher, logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *StockAlertHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockBelowThreshold,
		inventory.EventTypeStockDepleted,
		inventory.EventTypeStockReplenished,
	}
}

// Handle processes one stock event
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var n notify.Notification

	switch e := event.(type) {
	case *inventory.StockBelowThresholdEvent:
		n = notify.Notification{
			Kind:    notify.KindStockLow,
			Subject: "Stock low",
			Data: map[string]string{
				"product_id": e.ProductID.String(),
				"on_hand":    e.OnHand.String(),
				"threshold":  e.Threshold.String(),
			},
		}
	case *inventory.StockDepletedEvent:
		n = notify.Notification{
			Kind:    notify.KindStockDepleted,
			Subject: "Stock depleted",
			Data: map[string]string{
				"product_id": e.ProductID.String(),
			},
		}
	case *inventory.StockReplenishedEvent:
		n = notify.Notification{
			Kind:    notify.KindStockReplenished,
			Subject: "Stock replenished",
			Data: map[string]string{
				"product_id": e.ProductID.String(),
				"on_hand":    e.OnHand.String(),
			},
		}
	default:
		return nil
	}

	if err := h.dispatcher.Send(ctx, n); err != nil {
		h.logger.Error("Failed to send stock alert",
			zap.String("kind", string(n.Kind)),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
