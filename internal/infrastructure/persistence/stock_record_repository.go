package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
)

// GormStockRecordRepository implements inventory.StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByItem finds the stock record for a product or variant.
// Returns shared.ErrNotFound when the item is not stock-tracked.
func (r *GormStockRecordRepository) FindByItem(ctx context.Context, item inventory.ItemRef) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	query := scopeToItem(r.db.WithContext(ctx), item)
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByItems batch-fetches stock records. Items without a record are
// silently absent from the result.
func (r *GormStockRecordRepository) FindByItems(ctx context.Context, items []inventory.ItemRef) ([]inventory.StockRecord, error) {
	if len(items) == 0 {
		return nil, nil
	}

	productIDs := make([]any, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	var candidates []inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	// Keep only exact product+variant matches from the candidate rows.
	wanted := make(map[string]bool, len(items))
	for _, item := range items {
		wanted[item.Key()] = true
	}

	records := make([]inventory.StockRecord, 0, len(candidates))
	for _, record := range candidates {
		if wanted[record.Item().Key()] {
			records = append(records, record)
		}
	}
	return records, nil
}

// Save creates or updates a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

var _ inventory.StockRecordRepository = (*GormStockRecordRepository)(nil)

// GormStockAuditRepository implements inventory.StockAuditRepository using GORM
type GormStockAuditRepository struct {
	db *gorm.DB
}

// NewGormStockAuditRepository creates a new GormStockAuditRepository
func NewGormStockAuditRepository(db *gorm.DB) *GormStockAuditRepository {
	return &GormStockAuditRepository{db: db}
}

// Append appends one stock movement record
func (r *GormStockAuditRepository) Append(ctx context.Context, audit *inventory.StockAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

var _ inventory.StockAuditRepository = (*GormStockAuditRepository)(nil)
