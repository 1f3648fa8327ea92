package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
)

func TestAvailabilityService_Availability(t *testing.T) {
	stock := new(MockStockRecordRepository)
	reservations := new(MockReservationRepository)
	svc := NewAvailabilityService(stock, reservations, zap.NewNop())

	item := inventory.NewItemRef(uuid.New(), nil)
	record, _ := inventory.NewStockRecord(item, decimal.NewFromInt(10), decimal.NewFromInt(2))

	active, err := inventory.NewReservation(valueobject.MustGuestIdentity("sess-a"), item,
		decimal.NewFromInt(3), time.Now().Add(10*time.Minute))
	require.NoError(t, err)
	lapsed, err := inventory.NewReservation(valueobject.MustGuestIdentity("sess-b"), item,
		decimal.NewFromInt(4), time.Now().Add(-time.Minute))
	require.NoError(t, err)

	stock.On("FindByItem", mock.Anything, item).Return(record, nil)
	reservations.On("FindActiveByItem", mock.Anything, item).Return([]inventory.Reservation{*active, *lapsed}, nil)

	result, err := svc.Availability(context.Background(), item)

	require.NoError(t, err)
	assert.True(t, result.OnHand.Equal(decimal.NewFromInt(10)))
	assert.True(t, result.Reserved.Equal(decimal.NewFromInt(3)))
	assert.True(t, result.Available.Equal(decimal.NewFromInt(7)))
}

func TestAvailabilityService_Availability_Untracked(t *testing.T) {
	stock := new(MockStockRecordRepository)
	reservations := new(MockReservationRepository)
	svc := NewAvailabilityService(stock, reservations, zap.NewNop())

	item := inventory.NewItemRef(uuid.New(), nil)
	stock.On("FindByItem", mock.Anything, item).Return(nil, shared.ErrNotFound)

	_, err := svc.Availability(context.Background(), item)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
