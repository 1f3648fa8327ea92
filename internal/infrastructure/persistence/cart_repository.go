package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByIdentity finds the cart owned by the given identity, with items preloaded
func (r *GormCartRepository) FindByIdentity(ctx context.Context, identity valueobject.Identity) (*cart.Cart, error) {
	var c cart.Cart
	query := scopeToIdentity(r.db.WithContext(ctx).Preload("Items"), identity)
	if err := query.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save creates or updates a cart and its items. Lines removed from the
// aggregate are deleted so the stored cart mirrors the in-memory one.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(c).Error; err != nil {
			return err
		}

		keep := make([]any, 0, len(c.Items))
		for i := range c.Items {
			if err := tx.Save(&c.Items[i]).Error; err != nil {
				return err
			}
			keep = append(keep, c.Items[i].ID)
		}

		stale := tx.Where("cart_id = ?", c.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		return stale.Delete(&cart.CartItem{}).Error
	})
}

// ClearItems deletes all items of the cart owned by the given identity
func (r *GormCartRepository) ClearItems(ctx context.Context, identity valueobject.Identity) error {
	var c cart.Cart
	query := scopeToIdentity(r.db.WithContext(ctx), identity)
	if err := query.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&cart.Cart{}).Where("id = ?", c.ID).
			Update("displayed_subtotal", 0).Error
	})
}

var _ cart.Repository = (*GormCartRepository)(nil)
