package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/notify"
	"github.com/shopfront/backend/internal/domain/shared"
)

// LogDispatcher writes notifications to the structured log instead of an
// external channel. It stands in for a mail or push provider in environments
// where none is wired up.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a new LogDispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{
		logger: logger.Named("notify"),
	}
}

// Send logs the notification
func (d *LogDispatcher) Send(ctx context.Context, n notify.Notification) error {
	if n.Kind == "" {
		return shared.ErrInvalidInput
	}

	fields := []zap.Field{
		zap.String("kind", string(n.Kind)),
		zap.String("subject", n.Subject),
	}
	if n.Recipient != "" {
		fields = append(fields, zap.String("recipient", n.Recipient))
	}
	for k, v := range n.Data {
		fields = append(fields, zap.String(k, v))
	}

	d.logger.Info("Notification", fields...)
	return nil
}

var _ notify.Dispatcher = (*LogDispatcher)(nil)
