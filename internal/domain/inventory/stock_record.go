package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Stock movement reasons recorded in the audit trail
const (
	ReasonOrderPlaced    = "order_placed"
	ReasonOrderCancelled = "order_cancelled"
	ReasonRestock        = "restock"
	ReasonAdjustment     = "manual_adjustment"
)

// StockRecord tracks the physical on-hand quantity of one stocked item.
// Reservations are held separately; the sellable quantity is derived by
// subtracting active reservations from OnHand.
type StockRecord struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item"`
	VariantID         *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_stock_item"`
	OnHand            decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates a stock record for an item
func NewStockRecord(item ItemRef, onHand, lowStockThreshold decimal.Decimal) (*StockRecord, error) {
	if item.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if onHand.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "On-hand quantity cannot be negative")
	}
	if lowStockThreshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}
	return &StockRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         item.ProductID,
		VariantID:         item.VariantID,
		OnHand:            onHand,
		LowStockThreshold: lowStockThreshold,
	}, nil
}

// Item returns the stocked item reference
func (s *StockRecord) Item() ItemRef {
	return ItemRef{ProductID: s.ProductID, VariantID: s.VariantID}
}

// Apply changes the on-hand quantity by delta (negative deducts) and returns
// the audit entry describing the movement. A delta that would take the
// quantity below zero is rejected and nothing changes.
func (s *StockRecord) Apply(delta decimal.Decimal, reason string) (*StockAudit, error) {
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock delta cannot be zero")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Stock movement reason is required")
	}
	newQuantity := s.OnHand.Add(delta)
	if newQuantity.IsNegative() {
		return nil, shared.ErrInsufficientStock
	}

	previous := s.OnHand
	s.OnHand = newQuantity
	s.UpdatedAt = time.Now()

	audit := &StockAudit{
		BaseEntity:       shared.NewBaseEntity(),
		StockRecordID:    s.ID,
		ProductID:        s.ProductID,
		VariantID:        s.VariantID,
		PreviousQuantity: previous,
		NewQuantity:      newQuantity,
		Delta:            delta,
		Reason:           reason,
	}

	s.raiseThresholdEvents(previous, newQuantity)
	return audit, nil
}

// raiseThresholdEvents raises alerts caused by a movement. Every deduction
// that lands at or below the threshold alerts, even when stock already sat
// below it; depletion to zero supersedes the low-stock alert. Replenishment
// alerts only on crossing back above the threshold.
func (s *StockRecord) raiseThresholdEvents(previous, current decimal.Decimal) {
	if current.IsZero() && previous.IsPositive() {
		s.AddDomainEvent(NewStockDepletedEvent(s))
		return
	}
	deducted := current.LessThan(previous)
	if deducted && current.LessThanOrEqual(s.LowStockThreshold) {
		s.AddDomainEvent(NewStockBelowThresholdEvent(s))
		return
	}
	crossedAbove := current.GreaterThan(s.LowStockThreshold) && previous.LessThanOrEqual(s.LowStockThreshold)
	if !deducted && crossedAbove {
		s.AddDomainEvent(NewStockReplenishedEvent(s))
	}
}

// StockAudit is an append-only record of one stock movement
type StockAudit struct {
	shared.BaseEntity
	StockRecordID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID        *uuid.UUID      `gorm:"type:uuid"`
	PreviousQuantity decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NewQuantity      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Delta            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reason           string          `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (StockAudit) TableName() string {
	return "stock_audits"
}
