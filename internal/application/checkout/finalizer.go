package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/shopfront/backend/internal/application/inventory"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/payment"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// verifyIdempotencyPrefix namespaces payment callback keys in the store
const verifyIdempotencyPrefix = "payment:verify:"

// verifyIdempotencyTTL is how long a processed callback key is remembered
const verifyIdempotencyTTL = 24 * time.Hour

// ReservationManager is the slice of the reservation service the finalizer needs
type ReservationManager interface {
	Reserve(ctx context.Context, identity valueobject.Identity, lines []appinventory.ReserveLine) ([]*inventory.Reservation, error)
	Confirm(ctx context.Context, identity valueobject.Identity) error
	Release(ctx context.Context, identity valueobject.Identity) error
}

// StockUpdater is the slice of the stock mutator the finalizer needs
type StockUpdater interface {
	UpdateStock(ctx context.Context, item inventory.ItemRef, delta decimal.Decimal, reason string) (*inventory.StockRecord, error)
}

// Finalizer runs the money-adjacent half of checkout: it opens the payment
// order against reserved stock, turns a verified payment into an order, and
// unwinds cancellations. The invariant it protects: stock holds never outlive
// a failed flow, and an order exists only after its payment verified.
type Finalizer struct {
	cartRepo     cart.Repository
	productRepo  catalog.ProductRepository
	validator    *Validator
	reservations ReservationManager
	stock        StockUpdater
	orderRepo    order.Repository
	gateway      payment.Gateway
	idempotency  shared.IdempotencyStore
	eventBus     shared.EventPublisher
	pricing      checkout.PricingConfig
	logger       *zap.Logger
}

// NewFinalizer creates a new Finalizer
func NewFinalizer(
	cartRepo cart.Repository,
	productRepo catalog.ProductRepository,
	validator *Validator,
	reservations ReservationManager,
	stock StockUpdater,
	orderRepo order.Repository,
	gateway payment.Gateway,
	idempotency shared.IdempotencyStore,
	eventBus shared.EventPublisher,
	pricing checkout.PricingConfig,
	logger *zap.Logger,
) *Finalizer {
	return &Finalizer{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		validator:    validator,
		reservations: reservations,
		stock:        stock,
		orderRepo:    orderRepo,
		gateway:      gateway,
		idempotency:  idempotency,
		eventBus:     eventBus,
		pricing:      pricing,
		logger:       logger,
	}
}

// Checkout validates the cart, reserves stock for every line, and opens a
// payment order at the gateway. If the gateway call fails the reservations
// are released before returning; they must never outlive a failed checkout.
func (f *Finalizer) Checkout(ctx context.Context, identity valueobject.Identity, req CheckoutRequest) (*CheckoutResponse, error) {
	if !f.gateway.IsConfigured() {
		return nil, payment.ErrGatewayNotConfigured
	}

	c, err := f.cartRepo.FindByIdentity(ctx, identity)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrEmptyCart
		}
		return nil, err
	}

	validated, err := f.validator.Validate(ctx, c)
	if err != nil {
		return nil, err
	}

	quote, err := checkout.ComputeQuote(f.pricing, validated.Subtotal, req.ShippingMethod, req.CouponCode)
	if err != nil {
		return nil, err
	}

	reserved, err := f.reservations.Reserve(ctx, identity, validated.ReserveLines())
	if err != nil {
		return nil, err
	}

	succeeded := false
	defer func() {
		if !succeeded {
			f.releaseHolds(ctx, identity, "checkout failed after reservation")
		}
	}()

	total := valueobject.NewMoneyINR(quote.Total)
	gatewayOrder, err := f.gateway.CreateOrder(ctx, payment.CreateOrderRequest{
		AmountSubunits: total.Subunits(),
		Currency:       string(total.Currency()),
		Receipt:        "rcpt_" + uuid.NewString()[:13],
		Notes: map[string]string{
			"owner":           identity.Key(),
			"shipping_method": string(req.ShippingMethod),
			"coupon_code":     req.CouponCode,
		},
	})
	if err != nil {
		return nil, err
	}

	succeeded = true
	f.logger.Info("Checkout opened",
		zap.String("owner", identity.Key()),
		zap.String("gateway_order_id", gatewayOrder.ID),
		zap.String("total", quote.Total.String()),
	)

	return &CheckoutResponse{
		GatewayOrderID: gatewayOrder.ID,
		AmountSubunits: gatewayOrder.AmountSubunits,
		Currency:       gatewayOrder.Currency,
		Quote:          quote,
		ReservedUntil:  reserved[0].ExpiresAt,
	}, nil
}

// VerifyPayment handles the gateway callback after the shopper paid. The
// signature check is terminal: a bad signature releases the holds and no
// order is ever created for that payment. A replayed callback for an already
// processed payment returns the existing order unchanged.
func (f *Finalizer) VerifyPayment(ctx context.Context, identity valueobject.Identity, req VerifyPaymentRequest) (*OrderView, error) {
	key := verifyIdempotencyPrefix + req.GatewayPaymentID
	processed, err := f.idempotency.IsProcessed(ctx, key)
	if err != nil {
		return nil, err
	}
	if processed {
		existing, err := f.orderRepo.FindByGatewayPaymentID(ctx, req.GatewayPaymentID)
		if err != nil {
			return nil, err
		}
		f.logger.Info("Replayed payment callback",
			zap.String("gateway_payment_id", req.GatewayPaymentID),
			zap.String("order_id", existing.ID.String()),
		)
		return NewOrderView(existing), nil
	}

	if !f.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		f.releaseHolds(ctx, identity, "payment signature rejected")
		f.publish(ctx, order.NewPaymentFailedEvent(
			req.GatewayOrderID, req.GatewayPaymentID, "signature verification failed", identity.Key()))
		f.logger.Warn("Payment signature rejected",
			zap.String("owner", identity.Key()),
			zap.String("gateway_order_id", req.GatewayOrderID),
		)
		return nil, shared.ErrSignatureInvalid
	}

	succeeded := false
	defer func() {
		if !succeeded {
			f.releaseHolds(ctx, identity, "payment verification failed after signature check")
		}
	}()

	c, err := f.cartRepo.FindByIdentity(ctx, identity)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrEmptyCart
		}
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	quote, err := checkout.ComputeQuote(f.pricing, c.Subtotal(), req.ShippingMethod, req.CouponCode)
	if err != nil {
		return nil, err
	}

	// The charged amount at the gateway must match what this cart prices to.
	gatewayOrder, err := f.gateway.FetchOrder(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	chargedTotal := valueobject.NewMoneyFromSubunits(gatewayOrder.AmountSubunits, valueobject.Currency(gatewayOrder.Currency))
	if !checkout.WithinEpsilon(chargedTotal.Amount(), quote.Total) {
		return nil, &AmountMismatchError{
			Displayed:  chargedTotal.Amount(),
			Recomputed: quote.Total,
		}
	}

	items, err := f.buildOrderItems(ctx, c)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(identity, quote, req.CouponCode, req.ShippingMethod,
		req.GatewayOrderID, req.GatewayPaymentID, items)
	if err != nil {
		return nil, err
	}
	if err := f.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	succeeded = true

	// Everything below is cleanup after the point of no return. Failures
	// degrade (a hold lingers until expiry, a stock count lags) but the
	// order stands, so errors are logged and swallowed.
	if err := f.reservations.Confirm(ctx, identity); err != nil {
		f.logger.Error("Failed to confirm reservations after order creation",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}

	if _, err := f.idempotency.MarkProcessed(ctx, key, verifyIdempotencyTTL); err != nil {
		f.logger.Error("Failed to mark payment callback processed",
			zap.String("gateway_payment_id", req.GatewayPaymentID),
			zap.Error(err),
		)
	}

	f.deductStock(ctx, o)
	f.clearCart(ctx, identity, c)
	f.publish(ctx, o.GetDomainEvents()...)
	o.ClearDomainEvents()

	f.logger.Info("Order finalized",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.Number),
		zap.String("owner", identity.Key()),
		zap.String("total", o.TotalAmount.String()),
	)
	return NewOrderView(o), nil
}

// CancelOrder cancels an order that has not shipped, restores its stock, and
// asks the gateway for a refund. Refund failure never blocks cancellation;
// it is flagged for manual follow-up instead.
func (f *Finalizer) CancelOrder(ctx context.Context, identity valueobject.Identity, orderID uuid.UUID, req CancelOrderRequest) (*CancelOrderResponse, error) {
	o, err := f.orderRepo.FindByIDForIdentity(ctx, orderID, identity)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(req.Reason); err != nil {
		return nil, err
	}

	// The cancellation must be durable before money moves: a refund issued
	// against an order still stored as processing would be unaccounted for
	// if the save failed afterwards.
	if err := f.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	refund := f.refund(ctx, o)
	if refund != RefundStatusNotConfigured {
		if err := f.orderRepo.Save(ctx, o); err != nil {
			f.logger.Error("Failed to persist refund status",
				zap.String("order_id", o.ID.String()),
				zap.String("refund", string(refund)),
				zap.Error(err),
			)
		}
	}

	f.restoreStock(ctx, o)
	f.publish(ctx, o.GetDomainEvents()...)
	o.ClearDomainEvents()

	f.logger.Info("Order cancelled",
		zap.String("order_id", o.ID.String()),
		zap.String("refund", string(refund)),
	)
	return &CancelOrderResponse{Order: NewOrderView(o), Refund: refund}, nil
}

// GetOrder returns one of the shopper's orders
func (f *Finalizer) GetOrder(ctx context.Context, identity valueobject.Identity, orderID uuid.UUID) (*OrderView, error) {
	o, err := f.orderRepo.FindByIDForIdentity(ctx, orderID, identity)
	if err != nil {
		return nil, err
	}
	return NewOrderView(o), nil
}

// ListOrders returns the shopper's orders, newest first
func (f *Finalizer) ListOrders(ctx context.Context, identity valueobject.Identity, limit, offset int) ([]OrderView, error) {
	orders, err := f.orderRepo.FindByIdentity(ctx, identity, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, len(orders))
	for idx := range orders {
		views[idx] = *NewOrderView(&orders[idx])
	}
	return views, nil
}

// buildOrderItems freezes the cart lines into order items, resolving display
// names from the catalog
func (f *Finalizer) buildOrderItems(ctx context.Context, c *cart.Cart) ([]order.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for idx := range c.Items {
		ids = append(ids, c.Items[idx].ProductID)
	}
	products, err := f.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for idx := range products {
		byID[products[idx].ID] = &products[idx]
	}

	now := time.Now()
	items := make([]order.OrderItem, 0, len(c.Items))
	for idx := range c.Items {
		line := &c.Items[idx]
		name := "unknown"
		if product, ok := byID[line.ProductID]; ok {
			name = product.Name
			if line.VariantID != nil {
				if variant := product.Variant(*line.VariantID); variant != nil {
					name = product.Name + " / " + variant.Name
				}
			}
		}
		items = append(items, order.OrderItem{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Amount:    line.Amount(),
			CreatedAt: now,
		})
	}
	return items, nil
}

// deductStock applies the physical deduction for each purchased line.
// Failures leave the on-hand count stale until reconciliation; they are
// logged with the order reference and never fail the order.
func (f *Finalizer) deductStock(ctx context.Context, o *order.Order) {
	for idx := range o.Items {
		item := &o.Items[idx]
		ref := inventory.NewItemRef(item.ProductID, item.VariantID)
		if _, err := f.stock.UpdateStock(ctx, ref, item.Quantity.Neg(), inventory.ReasonOrderPlaced); err != nil {
			f.logger.Error("Stock deduction failed for paid order",
				zap.String("order_id", o.ID.String()),
				zap.String("item", ref.Key()),
				zap.String("quantity", item.Quantity.String()),
				zap.Error(err),
			)
		}
	}
}

// restoreStock returns a cancelled order's quantities to the pool
func (f *Finalizer) restoreStock(ctx context.Context, o *order.Order) {
	for idx := range o.Items {
		item := &o.Items[idx]
		ref := inventory.NewItemRef(item.ProductID, item.VariantID)
		if _, err := f.stock.UpdateStock(ctx, ref, item.Quantity, inventory.ReasonOrderCancelled); err != nil {
			f.logger.Error("Stock restoration failed for cancelled order",
				zap.String("order_id", o.ID.String()),
				zap.String("item", ref.Key()),
				zap.Error(err),
			)
		}
	}
}

// refund asks the gateway to refund the order and records the outcome
func (f *Finalizer) refund(ctx context.Context, o *order.Order) RefundStatus {
	if !f.gateway.IsConfigured() {
		f.logger.Warn("Refund skipped, gateway not configured",
			zap.String("order_id", o.ID.String()),
		)
		return RefundStatusNotConfigured
	}

	total := valueobject.NewMoneyINR(o.TotalAmount)
	_, err := f.gateway.Refund(ctx, payment.RefundRequest{
		PaymentID:      o.GatewayPaymentID,
		AmountSubunits: total.Subunits(),
		Notes:          map[string]string{"order_number": o.Number},
	})
	if err != nil {
		f.logger.Error("Refund request failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
		o.MarkRefundFailed()
		return RefundStatusFailed
	}

	o.MarkRefundPending()
	return RefundStatusInitiated
}

// releaseHolds drops the shopper's active reservations, logging on failure.
// The sweeper is the backstop if even the release fails.
func (f *Finalizer) releaseHolds(ctx context.Context, identity valueobject.Identity, cause string) {
	if err := f.reservations.Release(ctx, identity); err != nil {
		f.logger.Error("Failed to release reservations",
			zap.String("owner", identity.Key()),
			zap.String("cause", cause),
			zap.Error(err),
		)
	}
}

// clearCart empties the cart after a successful order
func (f *Finalizer) clearCart(ctx context.Context, identity valueobject.Identity, c *cart.Cart) {
	if err := f.cartRepo.ClearItems(ctx, identity); err != nil {
		f.logger.Error("Failed to clear cart items", zap.String("owner", identity.Key()), zap.Error(err))
		return
	}
	c.Clear()
	if err := f.cartRepo.Save(ctx, c); err != nil {
		f.logger.Error("Failed to save cleared cart", zap.String("owner", identity.Key()), zap.Error(err))
	}
}

// publish sends events on the bus, logging failures
func (f *Finalizer) publish(ctx context.Context, events ...shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := f.eventBus.Publish(ctx, events...); err != nil {
		f.logger.Error("Failed to publish events", zap.Error(err))
	}
}
