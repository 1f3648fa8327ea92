package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// ReservationStatus is the lifecycle status of a reservation
type ReservationStatus string

const (
	// ReservationStatusActive holds stock against the shopper until it is
	// confirmed, released, or expires.
	ReservationStatusActive ReservationStatus = "active"
	// ReservationStatusConfirmed marks the hold as consumed by a paid order.
	// Confirmed reservations no longer count against availability because
	// the physical stock deduction supersedes them.
	ReservationStatusConfirmed ReservationStatus = "confirmed"
)

// Reservation is a time-boxed hold of stock for one cart line during
// checkout. Expired reservations are treated as inactive wherever they are
// read and are physically purged lazily on the next reservation attempt for
// the same item, or by the background sweeper.
type Reservation struct {
	shared.BaseEntity
	UserID    *uuid.UUID        `gorm:"type:uuid;index:idx_resv_user"`
	SessionID *string           `gorm:"type:varchar(100);index:idx_resv_session"`
	ProductID uuid.UUID         `gorm:"type:uuid;not null;index:idx_resv_item"`
	VariantID *uuid.UUID        `gorm:"type:uuid;index:idx_resv_item"`
	Quantity  decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Status    ReservationStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	ExpiresAt time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "stock_reservations"
}

// NewReservation creates an active reservation for the given shopper and item
func NewReservation(identity valueobject.Identity, item ItemRef, quantity decimal.Decimal, expiresAt time.Time) (*Reservation, error) {
	if identity.IsZero() {
		return nil, shared.NewDomainError("INVALID_IDENTITY", "Reservation owner identity is required")
	}
	if item.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reserved quantity must be positive")
	}

	r := &Reservation{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  item.ProductID,
		VariantID:  item.VariantID,
		Quantity:   quantity,
		Status:     ReservationStatusActive,
		ExpiresAt:  expiresAt,
	}
	if userID, ok := identity.UserID(); ok {
		r.UserID = &userID
	}
	if sessionID, ok := identity.SessionID(); ok {
		r.SessionID = &sessionID
	}
	return r, nil
}

// Identity reconstructs the owner identity from the stored columns
func (r *Reservation) Identity() valueobject.Identity {
	if r.UserID != nil {
		return valueobject.MustUserIdentity(*r.UserID)
	}
	if r.SessionID != nil {
		return valueobject.MustGuestIdentity(*r.SessionID)
	}
	return valueobject.Identity{}
}

// Item returns the reserved item reference
func (r *Reservation) Item() ItemRef {
	return ItemRef{ProductID: r.ProductID, VariantID: r.VariantID}
}

// IsExpired returns true if the hold has lapsed at the given instant
func (r *Reservation) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// HoldsStock returns true if the reservation still counts against
// availability at the given instant
func (r *Reservation) HoldsStock(now time.Time) bool {
	return r.Status == ReservationStatusActive && !r.IsExpired(now)
}

// Confirm marks the hold as consumed by a paid order
func (r *Reservation) Confirm() {
	r.Status = ReservationStatusConfirmed
	r.UpdatedAt = time.Now()
}
