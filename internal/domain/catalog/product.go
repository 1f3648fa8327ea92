package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
)

// ProductStatus represents the lifecycle status of a product or variant
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product is the sellable catalog entry. Pricing and status live here;
// stock quantities are tracked by the inventory context per product or variant.
type Product struct {
	shared.BaseAggregateRoot
	Name      string           `gorm:"type:varchar(255);not null"`
	SKU       string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status    ProductStatus    `gorm:"type:varchar(20);not null;default:'active';index"`
	Price     decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	SalePrice *decimal.Decimal `gorm:"type:decimal(18,2)"` // discounted price, nil when no sale runs

	Variants []ProductVariant `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, sku string, price decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Status:            ProductStatusActive,
		Price:             price,
		Variants:          make([]ProductVariant, 0),
	}, nil
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// EffectivePrice returns the sale price when one is set, otherwise the list price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.IsPositive() {
		return *p.SalePrice
	}
	return p.Price
}

// Variant returns the variant with the given ID, or nil
func (p *Product) Variant(variantID uuid.UUID) *ProductVariant {
	for idx := range p.Variants {
		if p.Variants[idx].ID == variantID {
			return &p.Variants[idx]
		}
	}
	return nil
}

// HasVariants returns true if the product is sold per-variant
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// ProductVariant is a sellable variation of a product (size, color, ...)
type ProductVariant struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name      string           `gorm:"type:varchar(255);not null"`
	SKU       string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status    ProductStatus    `gorm:"type:varchar(20);not null;default:'active'"`
	Price     *decimal.Decimal `gorm:"type:decimal(18,2)"` // overrides product price when set
	SalePrice *decimal.Decimal `gorm:"type:decimal(18,2)"`
	CreatedAt time.Time        `gorm:"not null"`
	UpdatedAt time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// IsActive returns true if the variant can be sold
func (v *ProductVariant) IsActive() bool {
	return v.Status == ProductStatusActive
}

// EffectivePrice returns the variant's effective price, falling back to the
// product-level price when the variant carries none
func (v *ProductVariant) EffectivePrice(product *Product) decimal.Decimal {
	if v.SalePrice != nil && v.SalePrice.IsPositive() {
		return *v.SalePrice
	}
	if v.Price != nil && v.Price.IsPositive() {
		return *v.Price
	}
	return product.EffectivePrice()
}
