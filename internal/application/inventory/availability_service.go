package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/inventory"
)

// AvailabilityService answers "how many can be sold right now" for stocked
// items. It never mutates anything; expired reservations are simply ignored
// at read time and purged elsewhere.
type AvailabilityService struct {
	stockRepo       inventory.StockRecordRepository
	reservationRepo inventory.ReservationRepository
	logger          *zap.Logger
	now             func() time.Time
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	stockRepo inventory.StockRecordRepository,
	reservationRepo inventory.ReservationRepository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		stockRepo:       stockRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// Availability computes the sellable quantity for one item
func (s *AvailabilityService) Availability(ctx context.Context, item inventory.ItemRef) (*AvailabilityResult, error) {
	record, err := s.stockRepo.FindByItem(ctx, item)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservationRepo.FindActiveByItem(ctx, item)
	if err != nil {
		return nil, err
	}

	now := s.now()
	available := inventory.AvailableQuantity(record.OnHand, reservations, now)

	reserved := decimal.Zero
	for idx := range reservations {
		if reservations[idx].HoldsStock(now) {
			reserved = reserved.Add(reservations[idx].Quantity)
		}
	}

	return &AvailabilityResult{
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		OnHand:    record.OnHand,
		Reserved:  reserved,
		Available: available,
	}, nil
}
