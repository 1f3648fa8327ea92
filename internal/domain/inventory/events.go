package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockRecord = "StockRecord"

// Event type constants
const (
	EventTypeStockBelowThreshold = "StockBelowThreshold"
	EventTypeStockDepleted       = "StockDepleted"
	EventTypeStockReplenished    = "StockReplenished"
	EventTypeReservationExpired  = "ReservationExpired"
)

// StockBelowThresholdEvent is raised when on-hand stock crosses from above
// the low-stock threshold to at or below it
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Threshold decimal.Decimal `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(record *StockRecord) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeStockRecord, record.ID),
		ProductID:       record.ProductID,
		VariantID:       record.VariantID,
		OnHand:          record.OnHand,
		Threshold:       record.LowStockThreshold,
	}
}

// EventType returns the event type name
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}

// StockDepletedEvent is raised when on-hand stock reaches zero
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
}

// NewStockDepletedEvent creates a new StockDepletedEvent
func NewStockDepletedEvent(record *StockRecord) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDepleted, AggregateTypeStockRecord, record.ID),
		ProductID:       record.ProductID,
		VariantID:       record.VariantID,
	}
}

// EventType returns the event type name
func (e *StockDepletedEvent) EventType() string {
	return EventTypeStockDepleted
}

// StockReplenishedEvent is raised when on-hand stock crosses back above the
// low-stock threshold
type StockReplenishedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Threshold decimal.Decimal `json:"threshold"`
}

// NewStockReplenishedEvent creates a new StockReplenishedEvent
func NewStockReplenishedEvent(record *StockRecord) *StockReplenishedEvent {
	return &StockReplenishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReplenished, AggregateTypeStockRecord, record.ID),
		ProductID:       record.ProductID,
		VariantID:       record.VariantID,
		OnHand:          record.OnHand,
		Threshold:       record.LowStockThreshold,
	}
}

// EventType returns the event type name
func (e *StockReplenishedEvent) EventType() string {
	return EventTypeStockReplenished
}

// ReservationExpiredEvent is raised when the sweeper purges a lapsed hold
type ReservationExpiredEvent struct {
	shared.BaseDomainEvent
	ReservationID uuid.UUID       `json:"reservation_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	VariantID     *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// NewReservationExpiredEvent creates a new ReservationExpiredEvent
func NewReservationExpiredEvent(r *Reservation) *ReservationExpiredEvent {
	return &ReservationExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationExpired, AggregateTypeStockRecord, r.ID),
		ReservationID:   r.ID,
		ProductID:       r.ProductID,
		VariantID:       r.VariantID,
		Quantity:        r.Quantity,
	}
}

// EventType returns the event type name
func (e *ReservationExpiredEvent) EventType() string {
	return EventTypeReservationExpired
}
