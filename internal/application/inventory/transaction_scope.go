package inventory

import (
	"context"

	"github.com/shopfront/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Batch reservations rely on this for their all-or-nothing
// guarantee.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Reservations returns the reservation repository scoped to the current transaction
	Reservations() inventory.ReservationRepository
	// Stock returns the stock record repository scoped to the current transaction
	Stock() inventory.StockRecordRepository
	// Audits returns the stock audit repository scoped to the current transaction
	Audits() inventory.StockAuditRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	reservations inventory.ReservationRepository
	stock        inventory.StockRecordRepository
	audits       inventory.StockAuditRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	reservations inventory.ReservationRepository,
	stock inventory.StockRecordRepository,
	audits inventory.StockAuditRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		reservations: reservations,
		stock:        stock,
		audits:       audits,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Reservations returns the reservation repository
func (s *NoOpTransactionScope) Reservations() inventory.ReservationRepository {
	return s.reservations
}

// Stock returns the stock record repository
func (s *NoOpTransactionScope) Stock() inventory.StockRecordRepository {
	return s.stock
}

// Audits returns the stock audit repository
func (s *NoOpTransactionScope) Audits() inventory.StockAuditRepository {
	return s.audits
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
