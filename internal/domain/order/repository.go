package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// Repository provides access to orders. Lookups are always scoped to the
// owning identity so one shopper can never read another shopper's orders.
type Repository interface {
	// Create persists a new order with its items
	Create(ctx context.Context, o *Order) error
	// FindByIDForIdentity finds an order by ID owned by the given identity.
	// Returns shared.ErrNotFound when the order does not exist or belongs
	// to someone else.
	FindByIDForIdentity(ctx context.Context, id uuid.UUID, identity valueobject.Identity) (*Order, error)
	// FindByGatewayPaymentID finds the order created for a gateway payment,
	// used to answer replayed payment callbacks idempotently
	FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*Order, error)
	// FindByIdentity lists the shopper's orders, newest first
	FindByIdentity(ctx context.Context, identity valueobject.Identity, limit, offset int) ([]Order, error)
	// Save updates an existing order
	Save(ctx context.Context, o *Order) error
}
