package inventory

import (
	"github.com/google/uuid"
)

// ItemRef identifies a stocked item: a product, or one of its variants.
// VariantID is nil for products sold without variants.
type ItemRef struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
}

// NewItemRef creates an ItemRef for a product or variant
func NewItemRef(productID uuid.UUID, variantID *uuid.UUID) ItemRef {
	return ItemRef{ProductID: productID, VariantID: variantID}
}

// Equal compares two item references
func (r ItemRef) Equal(other ItemRef) bool {
	if r.ProductID != other.ProductID {
		return false
	}
	if r.VariantID == nil || other.VariantID == nil {
		return r.VariantID == other.VariantID
	}
	return *r.VariantID == *other.VariantID
}

// Key returns a stable map key for the item reference
func (r ItemRef) Key() string {
	if r.VariantID != nil {
		return r.ProductID.String() + ":" + r.VariantID.String()
	}
	return r.ProductID.String()
}
