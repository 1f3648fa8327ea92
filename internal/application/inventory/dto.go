package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReserveLine is one item-and-quantity pair in a reservation request
type ReserveLine struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  decimal.Decimal
}

// AvailabilityResult reports the sellable quantity of one item
type AvailabilityResult struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
}

// SweepStats summarizes one expired-reservation sweep
type SweepStats struct {
	Purged int `json:"purged"`
}
