package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
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

// MockReservationRepository is a mock implementation of inventory.ReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) FindActiveByItem(ctx context.Context, item inventory.ItemRef) ([]inventory.Reservation, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindActiveByIdentity(ctx context.Context, identity valueobject.Identity) ([]inventory.Reservation, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Create(ctx context.Context, reservations []*inventory.Reservation) error {
	args := m.Called(ctx, reservations)
	return args.Error(0)
}

func (m *MockReservationRepository) ConfirmByIdentity(ctx context.Context, identity valueobject.Identity) (int64, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) DeleteActiveByIdentity(ctx context.Context, identity valueobject.Identity) (int64, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) DeleteExpiredByItem(ctx context.Context, item inventory.ItemRef, now time.Time) (int64, error) {
	args := m.Called(ctx, item, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) DeleteExpired(ctx context.Context, now time.Time) ([]inventory.Reservation, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Reservation), args.Error(1)
}

// MockStockRecordRepository is a mock implementation of inventory.StockRecordRepository
type MockStockRecordRepository struct {
	mock.Mock
}

func (m *MockStockRecordRepository) FindByItem(ctx context.Context, item inventory.ItemRef) (*inventory.StockRecord, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockRecord), args.Error(1)
}

func (m *MockStockRecordRepository) FindByItems(ctx context.Context, items []inventory.ItemRef) ([]inventory.StockRecord, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockRecord), args.Error(1)
}

func (m *MockStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockStockAuditRepository is a mock implementation of inventory.StockAuditRepository
type MockStockAuditRepository struct {
	mock.Mock
}

func (m *MockStockAuditRepository) Append(ctx context.Context, audit *inventory.StockAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

// newTestScope wires fresh mocks into a NoOpTransactionScope
func newTestScope() (*NoOpTransactionScope, *MockReservationRepository, *MockStockRecordRepository, *MockStockAuditRepository) {
	reservations := new(MockReservationRepository)
	stock := new(MockStockRecordRepository)
	audits := new(MockStockAuditRepository)
	return NewNoOpTransactionScope(reservations, stock, audits), reservations, stock, audits
}
