package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// GormReservationRepository implements inventory.ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func scopeToItem(q *gorm.DB, item inventory.ItemRef) *gorm.DB {
	q = q.Where("product_id = ?", item.ProductID)
	if item.VariantID != nil {
		return q.Where("variant_id = ?", *item.VariantID)
	}
	return q.Where("variant_id IS NULL")
}

// FindActiveByItem returns every active reservation on an item, including
// lapsed ones. Availability math filters lapsed holds at read time.
func (r *GormReservationRepository) FindActiveByItem(ctx context.Context, item inventory.ItemRef) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	query := scopeToItem(r.db.WithContext(ctx), item).
		Where("status = ?", inventory.ReservationStatusActive)
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// FindActiveByIdentity returns the shopper's active reservations
func (r *GormReservationRepository) FindActiveByIdentity(ctx context.Context, identity valueobject.Identity) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	query := scopeToIdentity(r.db.WithContext(ctx), identity).
		Where("status = ?", inventory.ReservationStatusActive)
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Create persists a batch of reservations. Inside a transaction scope the
// batch commits or rolls back as one.
func (r *GormReservationRepository) Create(ctx context.Context, reservations []*inventory.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(reservations).Error
}

// ConfirmByIdentity marks all of the shopper's active reservations as
// confirmed. Zero rows is a no-op, not an error.
func (r *GormReservationRepository) ConfirmByIdentity(ctx context.Context, identity valueobject.Identity) (int64, error) {
	result := scopeToIdentity(r.db.WithContext(ctx).Model(&inventory.Reservation{}), identity).
		Where("status = ?", inventory.ReservationStatusActive).
		Updates(map[string]any{
			"status":     inventory.ReservationStatusConfirmed,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteActiveByIdentity removes the shopper's active reservations
func (r *GormReservationRepository) DeleteActiveByIdentity(ctx context.Context, identity valueobject.Identity) (int64, error) {
	result := scopeToIdentity(r.db.WithContext(ctx), identity).
		Where("status = ?", inventory.ReservationStatusActive).
		Delete(&inventory.Reservation{})
	return result.RowsAffected, result.Error
}

// DeleteExpiredByItem purges lapsed active reservations on one item
func (r *GormReservationRepository) DeleteExpiredByItem(ctx context.Context, item inventory.ItemRef, now time.Time) (int64, error) {
	result := scopeToItem(r.db.WithContext(ctx), item).
		Where("status = ? AND expires_at < ?", inventory.ReservationStatusActive, now).
		Delete(&inventory.Reservation{})
	return result.RowsAffected, result.Error
}

// DeleteExpired purges all lapsed active reservations and returns the purged
// rows so the sweeper can publish expiry events.
func (r *GormReservationRepository) DeleteExpired(ctx context.Context, now time.Time) ([]inventory.Reservation, error) {
	var expired []inventory.Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ? AND expires_at < ?", inventory.ReservationStatusActive, now).
			Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}
		ids := make([]any, 0, len(expired))
		for i := range expired {
			ids = append(ids, expired[i].ID)
		}
		return tx.Where("id IN ?", ids).Delete(&inventory.Reservation{}).Error
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

var _ inventory.ReservationRepository = (*GormReservationRepository)(nil)
