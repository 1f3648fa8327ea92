package inventory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ReservationExpirationService purges lapsed holds in bulk. The lazy purge
// at reserve time already keeps hot items clean; this sweeper catches items
// nobody tries to reserve again.
type ReservationExpirationService struct {
	reservationRepo inventory.ReservationRepository
	eventBus        shared.EventPublisher
	logger          *zap.Logger
	now             func() time.Time
}

// NewReservationExpirationService creates a new ReservationExpirationService
func NewReservationExpirationService(
	reservationRepo inventory.ReservationRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ReservationExpirationService {
	return &ReservationExpirationService{
		reservationRepo: reservationRepo,
		eventBus:        eventBus,
		logger:          logger,
		now:             time.Now,
	}
}

// PurgeExpired deletes every lapsed active hold and publishes an expiry
// event per purged reservation
func (s *ReservationExpirationService) PurgeExpired(ctx context.Context) (*SweepStats, error) {
	purged, err := s.reservationRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to purge expired reservations", zap.Error(err))
		return nil, err
	}

	stats := &SweepStats{Purged: len(purged)}
	if stats.Purged == 0 {
		s.logger.Debug("No expired reservations found")
		return stats, nil
	}

	for idx := range purged {
		event := inventory.NewReservationExpiredEvent(&purged[idx])
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish reservation expiry event",
				zap.String("reservation_id", purged[idx].ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Purged expired reservations", zap.Int("count", stats.Purged))
	return stats, nil
}
