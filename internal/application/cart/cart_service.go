package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// Service manages shopper carts. Prices are captured from the catalog when
// a line is added; checkout re-validates them against the live catalog.
type Service struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewService creates a new cart Service
func NewService(cartRepo cart.Repository, productRepo catalog.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the shopper's cart, creating an empty one on first use
func (s *Service) GetCart(ctx context.Context, identity valueobject.Identity) (*View, error) {
	c, err := s.getOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}
	return NewView(c), nil
}

// AddItem adds a product or variant to the cart at its current effective price
func (s *Service) AddItem(ctx context.Context, identity valueobject.Identity, req AddItemRequest) (*View, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for purchase")
	}

	unitPrice := product.EffectivePrice()
	if req.VariantID != nil {
		variant := product.Variant(*req.VariantID)
		if variant == nil {
			return nil, shared.ErrNotFound
		}
		if !variant.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Variant is not available for purchase")
		}
		unitPrice = variant.EffectivePrice(product)
	} else if product.HasVariants() {
		return nil, shared.NewDomainError("VARIANT_REQUIRED", "Product is sold per variant")
	}

	c, err := s.getOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := c.AddItem(req.ProductID, req.VariantID, req.Quantity, unitPrice); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Debug("Added cart item",
		zap.String("owner", identity.Key()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("quantity", req.Quantity.String()),
	)
	return NewView(c), nil
}

// UpdateItemQuantity changes a line quantity; zero removes the line
func (s *Service) UpdateItemQuantity(ctx context.Context, identity valueobject.Identity, itemID uuid.UUID, quantity decimal.Decimal) (*View, error) {
	c, err := s.cartRepo.FindByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return NewView(c), nil
}

// Clear empties the shopper's cart
func (s *Service) Clear(ctx context.Context, identity valueobject.Identity) error {
	c, err := s.cartRepo.FindByIdentity(ctx, identity)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil
		}
		return err
	}
	c.Clear()
	if err := s.cartRepo.ClearItems(ctx, identity); err != nil {
		return err
	}
	return s.cartRepo.Save(ctx, c)
}

func (s *Service) getOrCreate(ctx context.Context, identity valueobject.Identity) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByIdentity(ctx, identity)
	if err == nil {
		return c, nil
	}
	if err != shared.ErrNotFound {
		return nil, err
	}
	c, err = cart.NewCart(identity)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
