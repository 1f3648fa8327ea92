package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("T-Shirt", "TS-001", decimal.NewFromInt(499))

	assert.NoError(t, err)
	assert.True(t, p.IsActive())
	assert.Empty(t, p.Variants)
}

func TestNewProduct_Invalid(t *testing.T) {
	_, err := NewProduct("", "TS-001", decimal.NewFromInt(499))
	assert.Error(t, err)

	_, err = NewProduct("T-Shirt", "", decimal.NewFromInt(499))
	assert.Error(t, err)

	_, err = NewProduct("T-Shirt", "TS-001", decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestProduct_EffectivePrice(t *testing.T) {
	p, _ := NewProduct("T-Shirt", "TS-001", decimal.NewFromInt(499))
	assert.True(t, p.EffectivePrice().Equal(decimal.NewFromInt(499)))

	sale := decimal.NewFromInt(399)
	p.SalePrice = &sale
	assert.True(t, p.EffectivePrice().Equal(sale))
}

func TestProductVariant_EffectivePrice(t *testing.T) {
	p, _ := NewProduct("T-Shirt", "TS-001", decimal.NewFromInt(499))

	v := ProductVariant{Name: "XL", SKU: "TS-001-XL", Status: ProductStatusActive}
	// No variant pricing: falls back to product price.
	assert.True(t, v.EffectivePrice(p).Equal(decimal.NewFromInt(499)))

	price := decimal.NewFromInt(549)
	v.Price = &price
	assert.True(t, v.EffectivePrice(p).Equal(price))

	sale := decimal.NewFromInt(449)
	v.SalePrice = &sale
	assert.True(t, v.EffectivePrice(p).Equal(sale))
}
