package inventory

import (
	"context"
	"time"

	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// ReservationRepository provides access to stock reservations
type ReservationRepository interface {
	// FindActiveByItem returns every active reservation on an item,
	// including lapsed ones. Callers decide at read time which holds still
	// count, using Reservation.HoldsStock.
	FindActiveByItem(ctx context.Context, item ItemRef) ([]Reservation, error)
	// FindActiveByIdentity returns the shopper's active reservations
	FindActiveByIdentity(ctx context.Context, identity valueobject.Identity) ([]Reservation, error)
	// Create persists a batch of reservations. Implementations running
	// inside a transaction scope make the batch all-or-nothing.
	Create(ctx context.Context, reservations []*Reservation) error
	// ConfirmByIdentity marks all of the shopper's active reservations as
	// confirmed and returns how many rows changed. Zero is not an error;
	// confirming twice is a no-op.
	ConfirmByIdentity(ctx context.Context, identity valueobject.Identity) (int64, error)
	// DeleteActiveByIdentity removes the shopper's active reservations and
	// returns how many rows were removed. Zero is not an error.
	DeleteActiveByIdentity(ctx context.Context, identity valueobject.Identity) (int64, error)
	// DeleteExpiredByItem purges lapsed active reservations on one item
	DeleteExpiredByItem(ctx context.Context, item ItemRef, now time.Time) (int64, error)
	// DeleteExpired purges all lapsed active reservations, used by the
	// background sweeper
	DeleteExpired(ctx context.Context, now time.Time) ([]Reservation, error)
}

// StockRecordRepository provides access to on-hand stock
type StockRecordRepository interface {
	// FindByItem finds the stock record for a product or variant.
	// Returns shared.ErrNotFound when the item is not stock-tracked.
	FindByItem(ctx context.Context, item ItemRef) (*StockRecord, error)
	// FindByItems batch-fetches stock records. Items without a record are
	// silently absent from the result.
	FindByItems(ctx context.Context, items []ItemRef) ([]StockRecord, error)
	// Save creates or updates a stock record
	Save(ctx context.Context, record *StockRecord) error
}

// StockAuditRepository appends stock movement records
type StockAuditRepository interface {
	Append(ctx context.Context, audit *StockAudit) error
}
