package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/shopfront/backend/internal/application/inventory"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Violation codes reported by cart validation
const (
	ViolationProductNotFound   = "PRODUCT_NOT_FOUND"
	ViolationProductInactive   = "PRODUCT_INACTIVE"
	ViolationInsufficientStock = "INSUFFICIENT_STOCK"
	ViolationPriceDrift        = "PRICE_DRIFT"
)

// Violation describes one problem with one cart line
type Violation struct {
	Code      string          `json:"code"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Message   string          `json:"message"`
	Requested decimal.Decimal `json:"requested,omitempty"`
	Available decimal.Decimal `json:"available,omitempty"`
}

// ValidationError carries every violation found in one validation pass, so
// the shopper can fix the whole cart at once instead of one line at a time
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for idx, v := range e.Violations {
		parts[idx] = fmt.Sprintf("%s: %s", v.Code, v.Message)
	}
	return "cart validation failed: " + strings.Join(parts, "; ")
}

// AmountMismatchError reports drift between the subtotal the shopper saw
// and the subtotal recomputed from live catalog prices
type AmountMismatchError struct {
	Displayed  decimal.Decimal `json:"displayed"`
	Recomputed decimal.Decimal `json:"recomputed"`
}

// Error implements the error interface
func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("cart amount mismatch: displayed %s, recomputed %s", e.Displayed, e.Recomputed)
}

// ValidatedLine is a cart line that passed validation, priced from the live catalog
type ValidatedLine struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Amount returns quantity * live unit price
func (l ValidatedLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// ValidatedCart is the outcome of a successful validation pass
type ValidatedCart struct {
	Lines    []ValidatedLine
	Subtotal decimal.Decimal
}

// ReserveLines converts the validated lines into a reservation request
func (v *ValidatedCart) ReserveLines() []appinventory.ReserveLine {
	lines := make([]appinventory.ReserveLine, len(v.Lines))
	for idx, l := range v.Lines {
		lines[idx] = appinventory.ReserveLine{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
		}
	}
	return lines
}

// AvailabilityChecker answers availability queries during validation
type AvailabilityChecker interface {
	Availability(ctx context.Context, item inventory.ItemRef) (*appinventory.AvailabilityResult, error)
}

// Validator re-checks a cart against the live catalog and stock position
// before any money moves. Per-line problems are collected, not short-circuited;
// the one exception is an empty cart, which fails immediately.
type Validator struct {
	productRepo  catalog.ProductRepository
	availability AvailabilityChecker
	logger       *zap.Logger
}

// NewValidator creates a new Validator
func NewValidator(productRepo catalog.ProductRepository, availability AvailabilityChecker, logger *zap.Logger) *Validator {
	return &Validator{
		productRepo:  productRepo,
		availability: availability,
		logger:       logger,
	}
}

// Validate checks every line of the cart and the cart-level subtotal.
// Line checks: the product exists, it is active, enough stock is available,
// and the captured price still matches the catalog within PriceEpsilon.
// Cart check: the displayed subtotal matches the recomputed one.
func (v *Validator) Validate(ctx context.Context, c *cart.Cart) (*ValidatedCart, error) {
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	seen := make(map[uuid.UUID]struct{}, len(c.Items))
	for idx := range c.Items {
		if _, ok := seen[c.Items[idx].ProductID]; !ok {
			seen[c.Items[idx].ProductID] = struct{}{}
			ids = append(ids, c.Items[idx].ProductID)
		}
	}

	products, err := v.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for idx := range products {
		byID[products[idx].ID] = &products[idx]
	}

	var violations []Violation
	lines := make([]ValidatedLine, 0, len(c.Items))
	recomputed := decimal.Zero

	for idx := range c.Items {
		item := &c.Items[idx]
		line, violation, err := v.validateLine(ctx, item, byID)
		if err != nil {
			return nil, err
		}
		if violation != nil {
			violations = append(violations, *violation)
			continue
		}
		lines = append(lines, *line)
		recomputed = recomputed.Add(line.Amount())
	}

	if len(violations) > 0 {
		v.logger.Info("Cart validation failed",
			zap.String("cart_id", c.ID.String()),
			zap.Int("violations", len(violations)),
		)
		return nil, &ValidationError{Violations: violations}
	}

	if !checkout.WithinEpsilon(c.DisplayedSubtotal, recomputed) {
		return nil, &AmountMismatchError{
			Displayed:  c.DisplayedSubtotal,
			Recomputed: recomputed,
		}
	}

	return &ValidatedCart{Lines: lines, Subtotal: recomputed}, nil
}

// validateLine checks one cart line. Returns a violation for shopper-fixable
// problems and an error only for infrastructure failures.
func (v *Validator) validateLine(ctx context.Context, item *cart.CartItem, byID map[uuid.UUID]*catalog.Product) (*ValidatedLine, *Violation, error) {
	product, ok := byID[item.ProductID]
	if !ok {
		return nil, &Violation{
			Code:      ViolationProductNotFound,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Message:   "Product no longer exists",
		}, nil
	}
	if !product.IsActive() {
		return nil, &Violation{
			Code:      ViolationProductInactive,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Message:   "Product is no longer sold",
		}, nil
	}

	name := product.Name
	livePrice := product.EffectivePrice()
	if item.VariantID != nil {
		variant := product.Variant(*item.VariantID)
		if variant == nil {
			return nil, &Violation{
				Code:      ViolationProductNotFound,
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Message:   "Variant no longer exists",
			}, nil
		}
		if !variant.IsActive() {
			return nil, &Violation{
				Code:      ViolationProductInactive,
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Message:   "Variant is no longer sold",
			}, nil
		}
		name = product.Name + " / " + variant.Name
		livePrice = variant.EffectivePrice(product)
	}

	availability, err := v.availability.Availability(ctx, inventory.NewItemRef(item.ProductID, item.VariantID))
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, &Violation{
				Code:      ViolationInsufficientStock,
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Message:   "Item is not available",
				Requested: item.Quantity,
				Available: decimal.Zero,
			}, nil
		}
		return nil, nil, err
	}
	if item.Quantity.GreaterThan(availability.Available) {
		return nil, &Violation{
			Code:      ViolationInsufficientStock,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Message:   "Not enough stock available",
			Requested: item.Quantity,
			Available: availability.Available,
		}, nil
	}

	if !checkout.WithinEpsilon(item.UnitPrice, livePrice) {
		return nil, &Violation{
			Code:      ViolationPriceDrift,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Message:   fmt.Sprintf("Price changed from %s to %s", item.UnitPrice, livePrice),
		}, nil
	}

	return &ValidatedLine{
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		Name:      name,
		Quantity:  item.Quantity,
		UnitPrice: livePrice,
	}, nil, nil
}
