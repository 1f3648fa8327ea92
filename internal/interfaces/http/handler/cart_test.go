package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcart "github.com/shopfront/backend/internal/application/cart"
	"github.com/shopfront/backend/internal/domain/cart"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// withIdentity injects a fixed shopper identity, standing in for the
// identity middleware
func withIdentity(identity valueobject.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.IdentityContextKey, identity)
		c.Next()
	}
}

type stubCartRepo struct {
	carts map[string]*cart.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]*cart.Cart)}
}

func (r *stubCartRepo) FindByIdentity(_ context.Context, identity valueobject.Identity) (*cart.Cart, error) {
	if c, ok := r.carts[identity.Key()]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubCartRepo) Save(_ context.Context, c *cart.Cart) error {
	r.carts[c.Identity().Key()] = c
	return nil
}

func (r *stubCartRepo) ClearItems(_ context.Context, identity valueobject.Identity) error {
	if c, ok := r.carts[identity.Key()]; ok {
		c.Items = nil
		return nil
	}
	return shared.ErrNotFound
}

type stubProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func newCartTestServer(t *testing.T, products *stubProductRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := appcart.NewService(newStubCartRepo(), products, zap.NewNop())
	engine := gin.New()
	engine.Use(withIdentity(valueobject.MustGuestIdentity("sess-1")))

	api := engine.Group("/api/v1")
	NewCartHandler(service).RegisterRoutes(api)
	return engine
}

func mustProduct(t *testing.T, name string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "SKU-"+uuid.NewString()[:8], decimal.NewFromInt(price))
	require.NoError(t, err)
	return p
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCartHandler_GetCart_CreatesEmptyCart(t *testing.T) {
	engine := newCartTestServer(t, newStubProductRepo())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	view := resp.Data.(map[string]interface{})
	assert.Empty(t, view["items"])
	assert.Equal(t, "0", view["subtotal"])
}

func TestCartHandler_AddItem(t *testing.T) {
	products := newStubProductRepo()
	p := mustProduct(t, "T-Shirt", 250)
	require.NoError(t, products.Save(context.Background(), p))
	engine := newCartTestServer(t, products)

	body := fmt.Sprintf(`{"product_id":%q,"quantity":"2"}`, p.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	view := decodeResponse(t, w).Data.(map[string]interface{})
	require.Len(t, view["items"], 1)
	assert.Equal(t, "500", view["subtotal"])
}

func TestCartHandler_AddItem_UnknownProduct(t *testing.T) {
	engine := newCartTestServer(t, newStubProductRepo())

	body := fmt.Sprintf(`{"product_id":%q,"quantity":"1"}`, uuid.New())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestCartHandler_AddItem_InactiveProduct(t *testing.T) {
	products := newStubProductRepo()
	p := mustProduct(t, "Retired", 100)
	p.Status = catalog.ProductStatusInactive
	require.NoError(t, products.Save(context.Background(), p))
	engine := newCartTestServer(t, products)

	body := fmt.Sprintf(`{"product_id":%q,"quantity":"1"}`, p.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeProductInactive, decodeResponse(t, w).Error.Code)
}

func TestCartHandler_AddItem_MalformedBody(t *testing.T) {
	engine := newCartTestServer(t, newStubProductRepo())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	products := newStubProductRepo()
	p := mustProduct(t, "T-Shirt", 250)
	require.NoError(t, products.Save(context.Background(), p))
	engine := newCartTestServer(t, products)

	body := fmt.Sprintf(`{"product_id":%q,"quantity":"1"}`, p.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Empty(t, view["items"])
}
