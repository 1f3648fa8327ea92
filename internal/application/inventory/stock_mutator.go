package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
)

// StockMutator applies physical stock movements. Every movement writes an
// audit row in the same transaction; threshold alerts detected by the
// aggregate are published after commit and never fail the movement.
type StockMutator struct {
	scope    TransactionScope
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewStockMutator creates a new StockMutator
func NewStockMutator(scope TransactionScope, eventBus shared.EventPublisher, logger *zap.Logger) *StockMutator {
	return &StockMutator{
		scope:    scope,
		eventBus: eventBus,
		logger:   logger,
	}
}

// UpdateStock moves an item's on-hand quantity by delta (negative deducts)
// and records the movement. A movement that would take stock below zero is
// rejected with shared.ErrInsufficientStock.
func (s *StockMutator) UpdateStock(ctx context.Context, item inventory.ItemRef, delta decimal.Decimal, reason string) (*inventory.StockRecord, error) {
	var record *inventory.StockRecord

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.Stock().FindByItem(ctx, item)
		if err != nil {
			return err
		}

		audit, err := found.Apply(delta, reason)
		if err != nil {
			return err
		}

		if err := repos.Stock().Save(ctx, found); err != nil {
			return err
		}
		if err := repos.Audits().Append(ctx, audit); err != nil {
			return err
		}

		record = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock updated",
		zap.String("item", item.Key()),
		zap.String("delta", delta.String()),
		zap.String("on_hand", record.OnHand.String()),
		zap.String("reason", reason),
	)

	// Threshold alerts are advisory. A publish failure is logged, never
	// surfaced to the caller: the stock movement already committed.
	if events := record.GetDomainEvents(); len(events) > 0 {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Error("Failed to publish stock events",
				zap.String("item", item.Key()),
				zap.Error(err),
			)
		}
		record.ClearDomainEvents()
	}

	return record, nil
}
