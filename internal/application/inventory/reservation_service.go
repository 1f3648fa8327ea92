package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// DefaultReservationTTL is how long a checkout hold lasts unless configured
const DefaultReservationTTL = 15 * time.Minute

// ReservationService places, confirms, and releases stock holds. A batch
// reservation is atomic: either every line is held or none are, so a
// multi-item checkout can never strand partial holds.
type ReservationService struct {
	scope  TransactionScope
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewReservationService creates a new ReservationService
func NewReservationService(scope TransactionScope, ttl time.Duration, logger *zap.Logger) *ReservationService {
	if ttl <= 0 {
		ttl = DefaultReservationTTL
	}
	return &ReservationService{
		scope:  scope,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Reserve holds stock for every line, all-or-nothing. Each line's lapsed
// holds are purged first so they stop blocking availability, then the line
// is checked against the derived available quantity. Any shortage fails the
// whole batch and reports every short line at once.
func (s *ReservationService) Reserve(ctx context.Context, identity valueobject.Identity, lines []ReserveLine) ([]*inventory.Reservation, error) {
	if identity.IsZero() {
		return nil, shared.NewDomainError("INVALID_IDENTITY", "Reservation owner identity is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Reservation request has no lines")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	created := make([]*inventory.Reservation, 0, len(lines))

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var shortages []inventory.Shortage

		for _, line := range lines {
			item := inventory.NewItemRef(line.ProductID, line.VariantID)

			// Lazy purge: lapsed holds on this item are deleted before the
			// availability check so abandoned checkouts free stock here.
			if purged, err := repos.Reservations().DeleteExpiredByItem(ctx, item, now); err != nil {
				return err
			} else if purged > 0 {
				s.logger.Debug("Purged expired reservations",
					zap.String("item", item.Key()),
					zap.Int64("count", purged),
				)
			}

			available, err := s.availableInTx(ctx, repos, item, now)
			if err != nil {
				return err
			}

			if line.Quantity.GreaterThan(available) {
				shortages = append(shortages, inventory.Shortage{
					Item:      item,
					Requested: line.Quantity,
					Available: available,
				})
				continue
			}

			r, err := inventory.NewReservation(identity, item, line.Quantity, expiresAt)
			if err != nil {
				return err
			}
			created = append(created, r)
		}

		if len(shortages) > 0 {
			return &inventory.InsufficientStockError{Shortages: shortages}
		}

		return repos.Reservations().Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reserved stock",
		zap.String("owner", identity.Key()),
		zap.Int("lines", len(created)),
		zap.Time("expires_at", expiresAt),
	)
	return created, nil
}

// availableInTx derives availability for one item inside the transaction
func (s *ReservationService) availableInTx(ctx context.Context, repos TransactionalRepositories, item inventory.ItemRef, now time.Time) (decimal.Decimal, error) {
	record, err := repos.Stock().FindByItem(ctx, item)
	if err != nil {
		if err == shared.ErrNotFound {
			// Not stock-tracked means not sellable.
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	reservations, err := repos.Reservations().FindActiveByItem(ctx, item)
	if err != nil {
		return decimal.Zero, err
	}

	return inventory.AvailableQuantity(record.OnHand, reservations, now), nil
}

// Confirm marks the shopper's active holds as consumed by a paid order.
// Confirming when nothing is active is a no-op, so replayed payment
// callbacks are harmless.
func (s *ReservationService) Confirm(ctx context.Context, identity valueobject.Identity) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		confirmed, err := repos.Reservations().ConfirmByIdentity(ctx, identity)
		if err != nil {
			return err
		}
		if confirmed == 0 {
			s.logger.Debug("No active reservations to confirm", zap.String("owner", identity.Key()))
		}
		return nil
	})
}

// Release drops the shopper's active holds, returning the stock to the
// available pool. Releasing when nothing is held is a no-op.
func (s *ReservationService) Release(ctx context.Context, identity valueobject.Identity) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		released, err := repos.Reservations().DeleteActiveByIdentity(ctx, identity)
		if err != nil {
			return err
		}
		if released > 0 {
			s.logger.Info("Released reservations",
				zap.String("owner", identity.Key()),
				zap.Int64("count", released),
			)
		}
		return nil
	})
}
