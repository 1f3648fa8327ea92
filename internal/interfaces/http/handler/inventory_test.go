package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appinventory "github.com/shopfront/backend/internal/application/inventory"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
)

type stubStockRepo struct {
	records map[string]*inventory.StockRecord
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{records: make(map[string]*inventory.StockRecord)}
}

func (r *stubStockRepo) FindByItem(_ context.Context, item inventory.ItemRef) (*inventory.StockRecord, error) {
	if record, ok := r.records[item.Key()]; ok {
		return record, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubStockRepo) FindByItems(_ context.Context, items []inventory.ItemRef) ([]inventory.StockRecord, error) {
	var result []inventory.StockRecord
	for _, item := range items {
		if record, ok := r.records[item.Key()]; ok {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (r *stubStockRepo) Save(_ context.Context, record *inventory.StockRecord) error {
	r.records[record.Item().Key()] = record
	return nil
}

type stubReservationRepo struct {
	reservations []inventory.Reservation
}

func (r *stubReservationRepo) FindActiveByItem(_ context.Context, item inventory.ItemRef) ([]inventory.Reservation, error) {
	var result []inventory.Reservation
	for _, res := range r.reservations {
		if res.Item().Equal(item) {
			result = append(result, res)
		}
	}
	return result, nil
}

func (r *stubReservationRepo) FindActiveByIdentity(context.Context, valueobject.Identity) ([]inventory.Reservation, error) {
	return nil, nil
}

func (r *stubReservationRepo) Create(context.Context, []*inventory.Reservation) error {
	return nil
}

func (r *stubReservationRepo) ConfirmByIdentity(context.Context, valueobject.Identity) (int64, error) {
	return 0, nil
}

func (r *stubReservationRepo) DeleteActiveByIdentity(context.Context, valueobject.Identity) (int64, error) {
	return 0, nil
}

func (r *stubReservationRepo) DeleteExpiredByItem(context.Context, inventory.ItemRef, time.Time) (int64, error) {
	return 0, nil
}

func (r *stubReservationRepo) DeleteExpired(context.Context, time.Time) ([]inventory.Reservation, error) {
	return nil, nil
}

func newInventoryTestServer(t *testing.T, stock *stubStockRepo, reservations *stubReservationRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	availability := appinventory.NewAvailabilityService(stock, reservations, zap.NewNop())
	engine := gin.New()

	api := engine.Group("/api/v1")
	NewInventoryHandler(availability, nil).RegisterRoutes(api)
	return engine
}

func TestInventoryHandler_GetAvailability(t *testing.T) {
	productID := uuid.New()
	item := inventory.NewItemRef(productID, nil)

	stock := newStubStockRepo()
	record, err := inventory.NewStockRecord(item, decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, stock.Save(context.Background(), record))

	hold, err := inventory.NewReservation(
		valueobject.MustGuestIdentity("sess-1"), item,
		decimal.NewFromInt(3), time.Now().Add(15*time.Minute))
	require.NoError(t, err)
	reservations := &stubReservationRepo{reservations: []inventory.Reservation{*hold}}

	engine := newInventoryTestServer(t, stock, reservations)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/inventory/availability?product_id="+productID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	view := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "10", view["on_hand"])
	assert.Equal(t, "3", view["reserved"])
	assert.Equal(t, "7", view["available"])
}

func TestInventoryHandler_GetAvailability_ExpiredHoldIgnored(t *testing.T) {
	productID := uuid.New()
	item := inventory.NewItemRef(productID, nil)

	stock := newStubStockRepo()
	record, err := inventory.NewStockRecord(item, decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, stock.Save(context.Background(), record))

	lapsed, err := inventory.NewReservation(
		valueobject.MustGuestIdentity("sess-1"), item,
		decimal.NewFromInt(4), time.Now().Add(time.Millisecond))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	reservations := &stubReservationRepo{reservations: []inventory.Reservation{*lapsed}}

	engine := newInventoryTestServer(t, stock, reservations)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/inventory/availability?product_id="+productID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	view := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "10", view["available"])
}

func TestInventoryHandler_GetAvailability_Untracked(t *testing.T) {
	engine := newInventoryTestServer(t, newStubStockRepo(), &stubReservationRepo{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/inventory/availability?product_id="+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestInventoryHandler_GetAvailability_MissingProductID(t *testing.T) {
	engine := newInventoryTestServer(t, newStubStockRepo(), &stubReservationRepo{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/availability", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandler_AdjustStock_ZeroDelta(t *testing.T) {
	engine := newInventoryTestServer(t, newStubStockRepo(), &stubReservationRepo{})

	body := fmt.Sprintf(`{"product_id":%q,"delta":"0"}`, uuid.New())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/stock", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
