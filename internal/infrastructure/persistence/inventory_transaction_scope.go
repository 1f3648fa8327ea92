package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/shopfront/backend/internal/application/inventory"
	"github.com/shopfront/backend/internal/domain/inventory"
)

// GormTransactionScope implements the inventory TransactionScope using GORM
// transactions. Reservations created through it are all-or-nothing.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories exposes repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Reservations returns the reservation repository scoped to the current transaction
func (r *gormTransactionalRepositories) Reservations() inventory.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

// Stock returns the stock record repository scoped to the current transaction
func (r *gormTransactionalRepositories) Stock() inventory.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

// Audits returns the stock audit repository scoped to the current transaction
func (r *gormTransactionalRepositories) Audits() inventory.StockAuditRepository {
	return NewGormStockAuditRepository(r.tx)
}

var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
