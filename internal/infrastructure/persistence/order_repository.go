package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists a new order with its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// FindByIDForIdentity finds an order by ID owned by the given identity.
// A foreign order looks exactly like a missing one to the caller.
func (r *GormOrderRepository) FindByIDForIdentity(ctx context.Context, id uuid.UUID, identity valueobject.Identity) (*order.Order, error) {
	var o order.Order
	query := scopeToIdentity(r.db.WithContext(ctx).Preload("Items"), identity).
		Where("id = ?", id)
	if err := query.First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByGatewayPaymentID finds the order created for a gateway payment
func (r *GormOrderRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("gateway_payment_id = ?", gatewayPaymentID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByIdentity lists the shopper's orders, newest first
func (r *GormOrderRepository) FindByIdentity(ctx context.Context, identity valueobject.Identity, limit, offset int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 20
	}

	var orders []order.Order
	query := scopeToIdentity(r.db.WithContext(ctx).Preload("Items"), identity).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save updates an existing order
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(o).Error
}

var _ order.Repository = (*GormOrderRepository)(nil)
