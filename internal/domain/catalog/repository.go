package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository provides access to the product catalog
type ProductRepository interface {
	// FindByID finds a product by ID, with variants preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDs batch-fetches products by ID, with variants preloaded.
	// Missing IDs are silently absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
