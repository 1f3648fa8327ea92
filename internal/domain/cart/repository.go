package cart

import (
	"context"

	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// Repository provides access to carts keyed by owner identity
type Repository interface {
	// FindByIdentity finds the cart owned by the given identity, with items
	// preloaded. Returns shared.ErrNotFound when the shopper has no cart.
	FindByIdentity(ctx context.Context, identity valueobject.Identity) (*Cart, error)
	// Save creates or updates a cart and its items
	Save(ctx context.Context, c *Cart) error
	// ClearItems deletes all items of the cart owned by the given identity
	ClearItems(ctx context.Context, identity valueobject.Identity) error
}
