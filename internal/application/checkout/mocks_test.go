package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	appinventory "github.com/shopfront/backend/internal/application/inventory"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/payment"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByIdentity(ctx context.Context, identity valueobject.Identity) (*cart.Cart, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, identity valueobject.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockAvailabilityChecker is a mock implementation of AvailabilityChecker
type MockAvailabilityChecker struct {
	mock.Mock
}

func (m *MockAvailabilityChecker) Availability(ctx context.Context, item inventory.ItemRef) (*appinventory.AvailabilityResult, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appinventory.AvailabilityResult), args.Error(1)
}

// availableResult builds an AvailabilityResult with the given available quantity
func availableResult(item inventory.ItemRef, available int64) *appinventory.AvailabilityResult {
	return &appinventory.AvailabilityResult{
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		OnHand:    decimal.NewFromInt(available),
		Reserved:  decimal.Zero,
		Available: decimal.NewFromInt(available),
	}
}

// MockReservationManager is a mock implementation of ReservationManager
type MockReservationManager struct {
	mock.Mock
}

func (m *MockReservationManager) Reserve(ctx context.Context, identity valueobject.Identity, lines []appinventory.ReserveLine) ([]*inventory.Reservation, error) {
	args := m.Called(ctx, identity, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Reservation), args.Error(1)
}

func (m *MockReservationManager) Confirm(ctx context.Context, identity valueobject.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockReservationManager) Release(ctx context.Context, identity valueobject.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

// MockStockUpdater is a mock implementation of StockUpdater
type MockStockUpdater struct {
	mock.Mock
}

func (m *MockStockUpdater) UpdateStock(ctx context.Context, item inventory.ItemRef, delta decimal.Decimal, reason string) (*inventory.StockRecord, error) {
	args := m.Called(ctx, item, delta, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockRecord), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByIDForIdentity(ctx context.Context, id uuid.UUID, identity valueobject.Identity) (*order.Order, error) {
	args := m.Called(ctx, id, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*order.Order, error) {
	args := m.Called(ctx, gatewayPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIdentity(ctx context.Context, identity valueobject.Identity, limit, offset int) ([]order.Order, error) {
	args := m.Called(ctx, identity, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockGateway) CreateOrder(ctx context.Context, req payment.CreateOrderRequest) (*payment.GatewayOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayOrder), args.Error(1)
}

func (m *MockGateway) FetchOrder(ctx context.Context, gatewayOrderID string) (*payment.GatewayOrder, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayOrder), args.Error(1)
}

func (m *MockGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	args := m.Called(gatewayOrderID, gatewayPaymentID, signature)
	return args.Bool(0)
}

func (m *MockGateway) Refund(ctx context.Context, req payment.RefundRequest) (*payment.Refund, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Refund), args.Error(1)
}

// MemoryIdempotencyStore is an in-memory shared.IdempotencyStore for tests
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{keys: make(map[string]struct{})}
}

func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *MemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok, nil
}

func (s *MemoryIdempotencyStore) Close() error { return nil }

// MockEventPublisher collects published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}
