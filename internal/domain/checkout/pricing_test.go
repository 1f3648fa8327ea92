package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeQuote_StandardShippingBelowThreshold(t *testing.T) {
	quote, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(300), ShippingMethodStandard, "")

	assert.NoError(t, err)
	assert.True(t, quote.Shipping.Equal(decimal.NewFromInt(49)))
	assert.True(t, quote.Tax.Equal(decimal.NewFromInt(24)))
	assert.True(t, quote.Discount.IsZero())
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(373)))
}

func TestComputeQuote_FreeShippingAtThreshold(t *testing.T) {
	// The threshold itself qualifies for free shipping.
	quote, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(500), ShippingMethodStandard, "")

	assert.NoError(t, err)
	assert.True(t, quote.Shipping.IsZero())
	assert.True(t, quote.Tax.Equal(decimal.NewFromInt(40)))
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(540)))
}

func TestComputeQuote_ExpressAlwaysCharges(t *testing.T) {
	quote, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(1000), ShippingMethodExpress, "")

	assert.NoError(t, err)
	assert.True(t, quote.Shipping.Equal(decimal.NewFromInt(99)))
}

func TestComputeQuote_FlatCoupon(t *testing.T) {
	quote, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(500), ShippingMethodStandard, "FLAT100")

	assert.NoError(t, err)
	assert.True(t, quote.Discount.Equal(decimal.NewFromInt(100)))
	// 500 + 0 shipping + 40 tax - 100 discount
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(440)))
}

func TestComputeQuote_PercentageCoupon(t *testing.T) {
	quote, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(300), ShippingMethodStandard, "WELCOME10")

	assert.NoError(t, err)
	assert.True(t, quote.Discount.Equal(decimal.NewFromInt(30)))
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(343)))
}

func TestComputeQuote_UnknownCoupon(t *testing.T) {
	_, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(300), ShippingMethodStandard, "NOPE")
	assert.Error(t, err)
}

func TestComputeQuote_TotalFlooredAtZero(t *testing.T) {
	quote, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(10), ShippingMethodStandard, "FLAT100")

	assert.NoError(t, err)
	assert.True(t, quote.Total.IsZero())
}

func TestComputeQuote_TaxRoundsToWholeUnit(t *testing.T) {
	// 8% of 333 is 26.64, rounded to 27.
	quote, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(333), ShippingMethodStandard, "")

	assert.NoError(t, err)
	assert.True(t, quote.Tax.Equal(decimal.NewFromInt(27)))
}

func TestComputeQuote_InvalidInputs(t *testing.T) {
	_, err := ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(-1), ShippingMethodStandard, "")
	assert.Error(t, err)

	_, err = ComputeQuote(DefaultPricingConfig(), decimal.NewFromInt(100), ShippingMethod("drone"), "")
	assert.Error(t, err)
}

func TestWithinEpsilon(t *testing.T) {
	assert.True(t, WithinEpsilon(decimal.NewFromFloat(100.00), decimal.NewFromFloat(100.01)))
	assert.False(t, WithinEpsilon(decimal.NewFromFloat(100.00), decimal.NewFromFloat(100.02)))
}
