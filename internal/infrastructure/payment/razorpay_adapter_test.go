package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainpayment "github.com/shopfront/backend/internal/domain/payment"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *RazorpayAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewRazorpayAdapter(RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "test-secret",
		BaseURL:   server.URL,
	}, zap.NewNop())
}

func TestRazorpayAdapter_IsConfigured(t *testing.T) {
	configured := NewRazorpayAdapter(RazorpayConfig{KeyID: "k", KeySecret: "s"}, zap.NewNop())
	assert.True(t, configured.IsConfigured())

	missing := NewRazorpayAdapter(RazorpayConfig{KeyID: "k"}, zap.NewNop())
	assert.False(t, missing.IsConfigured())
}

func TestRazorpayAdapter_CreateOrder(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "test-secret", pass)

		var body razorpayOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(54000), body.Amount)
		assert.Equal(t, "INR", body.Currency)

		json.NewEncoder(w).Encode(razorpayOrderResponse{
			ID: "order_abc", Amount: body.Amount, Currency: body.Currency,
			Receipt: body.Receipt, Status: "created",
		})
	})

	order, err := adapter.CreateOrder(context.Background(), domainpayment.CreateOrderRequest{
		AmountSubunits: 54000,
		Currency:       "INR",
		Receipt:        "rcpt_1",
	})

	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(54000), order.AmountSubunits)
	assert.Equal(t, "created", order.Status)
}

func TestRazorpayAdapter_CreateOrder_NotConfigured(t *testing.T) {
	adapter := NewRazorpayAdapter(RazorpayConfig{}, zap.NewNop())

	_, err := adapter.CreateOrder(context.Background(), domainpayment.CreateOrderRequest{
		AmountSubunits: 100, Currency: "INR",
	})

	assert.ErrorIs(t, err, domainpayment.ErrGatewayNotConfigured)
}

func TestRazorpayAdapter_CreateOrder_GatewayError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":        "BAD_REQUEST_ERROR",
				"description": "amount must be at least INR 1.00",
			},
		})
	})

	_, err := adapter.CreateOrder(context.Background(), domainpayment.CreateOrderRequest{
		AmountSubunits: 0, Currency: "INR",
	})

	require.ErrorIs(t, err, domainpayment.ErrGatewayRequestFailed)
	assert.Contains(t, err.Error(), "amount must be at least")
}

func TestRazorpayAdapter_FetchOrder(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/orders/order_abc", r.URL.Path)

		json.NewEncoder(w).Encode(razorpayOrderResponse{
			ID: "order_abc", Amount: 54000, Currency: "INR", Status: "paid",
		})
	})

	order, err := adapter.FetchOrder(context.Background(), "order_abc")

	require.NoError(t, err)
	assert.Equal(t, "paid", order.Status)
}

func TestRazorpayAdapter_FetchOrder_NotFound(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := adapter.FetchOrder(context.Background(), "order_missing")

	assert.ErrorIs(t, err, domainpayment.ErrGatewayOrderNotFound)
}

func TestRazorpayAdapter_VerifySignature(t *testing.T) {
	adapter := NewRazorpayAdapter(RazorpayConfig{
		KeyID: "rzp_test_key", KeySecret: "test-secret",
	}, zap.NewNop())

	signature := domainpayment.Sign("test-secret", "order_abc", "pay_xyz")

	assert.True(t, adapter.VerifySignature("order_abc", "pay_xyz", signature))
	assert.False(t, adapter.VerifySignature("order_abc", "pay_other", signature))
	assert.False(t, adapter.VerifySignature("order_abc", "pay_xyz", "forged"))
}

func TestRazorpayAdapter_Refund(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments/pay_xyz/refund", r.URL.Path)

		json.NewEncoder(w).Encode(razorpayRefundResponse{
			ID: "rfnd_1", PaymentID: "pay_xyz", Status: "processed",
		})
	})

	refund, err := adapter.Refund(context.Background(), domainpayment.RefundRequest{
		PaymentID: "pay_xyz", AmountSubunits: 54000,
	})

	require.NoError(t, err)
	assert.Equal(t, "rfnd_1", refund.ID)
	assert.Equal(t, "processed", refund.Status)
}
