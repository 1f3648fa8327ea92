package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/shopfront/backend/internal/domain/shared"
)

// PriceEpsilon is the tolerance used when comparing a displayed amount to a
// server-side recomputation. Differences at or below it are rounding noise,
// anything larger is drift that must abort the checkout.
var PriceEpsilon = decimal.NewFromFloat(0.01)

// ShippingMethod selects the shipping fee tier
type ShippingMethod string

const (
	ShippingMethodStandard ShippingMethod = "standard"
	ShippingMethodExpress  ShippingMethod = "express"
)

// IsValid checks if the method is a known ShippingMethod
func (m ShippingMethod) IsValid() bool {
	return m == ShippingMethodStandard || m == ShippingMethodExpress
}

// PricingConfig carries the storefront pricing rules. Values are loaded from
// configuration so campaigns can tune them without a deploy.
type PricingConfig struct {
	TaxRate               decimal.Decimal
	ExpressShippingFee    decimal.Decimal
	StandardShippingFee   decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultPricingConfig returns the storefront's default pricing rules
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		TaxRate:               decimal.NewFromFloat(0.08),
		ExpressShippingFee:    decimal.NewFromInt(99),
		StandardShippingFee:   decimal.NewFromInt(49),
		FreeShippingThreshold: decimal.NewFromInt(500),
	}
}

// Coupon is a discount rule applied at checkout
type Coupon struct {
	Code       string
	FlatAmount decimal.Decimal // used when Percentage is zero
	Percentage decimal.Decimal // fraction of subtotal, e.g. 0.10
}

// Discount returns the discount amount for the given subtotal
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if c.Percentage.IsPositive() {
		return subtotal.Mul(c.Percentage).Round(2)
	}
	return c.FlatAmount
}

// coupons is the active coupon table. Kept in code for now; a campaign
// service owns the real table upstream.
var coupons = map[string]Coupon{
	"FLAT100":   {Code: "FLAT100", FlatAmount: decimal.NewFromInt(100)},
	"WELCOME10": {Code: "WELCOME10", Percentage: decimal.NewFromFloat(0.10)},
}

// LookupCoupon resolves a coupon code. Empty codes mean no coupon.
func LookupCoupon(code string) (Coupon, error) {
	if code == "" {
		return Coupon{}, nil
	}
	c, ok := coupons[code]
	if !ok {
		return Coupon{}, shared.NewDomainError("INVALID_COUPON", "Coupon code is not recognized")
	}
	return c, nil
}

// PriceQuote is the server-side authoritative breakdown of an order total
type PriceQuote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeQuote derives the full order total from a validated subtotal.
// Shipping is free at or above the free-shipping threshold for the standard
// tier; express always charges. Tax applies to the subtotal and rounds to a
// whole unit. The total never goes below zero however large the discount.
func ComputeQuote(cfg PricingConfig, subtotal decimal.Decimal, method ShippingMethod, couponCode string) (PriceQuote, error) {
	if subtotal.IsNegative() {
		return PriceQuote{}, shared.NewDomainError("INVALID_SUBTOTAL", "Subtotal cannot be negative")
	}
	if !method.IsValid() {
		return PriceQuote{}, shared.NewDomainError("INVALID_SHIPPING_METHOD", "Unknown shipping method")
	}

	coupon, err := LookupCoupon(couponCode)
	if err != nil {
		return PriceQuote{}, err
	}

	shipping := cfg.StandardShippingFee
	switch {
	case method == ShippingMethodExpress:
		shipping = cfg.ExpressShippingFee
	case subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold):
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(cfg.TaxRate).Round(0)
	discount := coupon.Discount(subtotal)

	total := subtotal.Add(shipping).Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return PriceQuote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}, nil
}

// WithinEpsilon reports whether two amounts agree within PriceEpsilon
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(PriceEpsilon)
}
