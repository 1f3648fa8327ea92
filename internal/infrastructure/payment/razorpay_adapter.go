package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/payment"
)

const defaultBaseURL = "https://api.razorpay.com"

// RazorpayConfig holds Razorpay API credentials
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// RazorpayAdapter implements the payment Gateway port against the Razorpay
// Orders API. Requests authenticate with HTTP basic auth (key id / secret);
// callback signatures verify locally against the key secret.
type RazorpayAdapter struct {
	config     RazorpayConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRazorpayAdapter creates a new Razorpay adapter
func NewRazorpayAdapter(config RazorpayConfig, logger *zap.Logger) *RazorpayAdapter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &RazorpayAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// IsConfigured reports whether API credentials are present
func (a *RazorpayAdapter) IsConfigured() bool {
	return a.config.KeyID != "" && a.config.KeySecret != ""
}

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayRefundResponse struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens a payment order at Razorpay
func (a *RazorpayAdapter) CreateOrder(ctx context.Context, req payment.CreateOrderRequest) (*payment.GatewayOrder, error) {
	if !a.IsConfigured() {
		return nil, payment.ErrGatewayNotConfigured
	}

	body := razorpayOrderRequest{
		Amount:   req.AmountSubunits,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}

	var resp razorpayOrderResponse
	if err := a.do(ctx, http.MethodPost, "/v1/orders", body, &resp); err != nil {
		return nil, err
	}

	if resp.ID == "" {
		return nil, payment.ErrGatewayInvalidResponse
	}

	return &payment.GatewayOrder{
		ID:             resp.ID,
		AmountSubunits: resp.Amount,
		Currency:       resp.Currency,
		Receipt:        resp.Receipt,
		Status:         resp.Status,
	}, nil
}

// FetchOrder reads a payment order back from Razorpay
func (a *RazorpayAdapter) FetchOrder(ctx context.Context, gatewayOrderID string) (*payment.GatewayOrder, error) {
	if !a.IsConfigured() {
		return nil, payment.ErrGatewayNotConfigured
	}

	var resp razorpayOrderResponse
	if err := a.do(ctx, http.MethodGet, "/v1/orders/"+gatewayOrderID, nil, &resp); err != nil {
		return nil, err
	}

	if resp.ID == "" {
		return nil, payment.ErrGatewayOrderNotFound
	}

	return &payment.GatewayOrder{
		ID:             resp.ID,
		AmountSubunits: resp.Amount,
		Currency:       resp.Currency,
		Receipt:        resp.Receipt,
		Status:         resp.Status,
	}, nil
}

// VerifySignature checks the checkout callback signature against the key secret
func (a *RazorpayAdapter) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if !a.IsConfigured() {
		return false
	}
	return payment.VerifySignature(a.config.KeySecret, gatewayOrderID, gatewayPaymentID, signature)
}

// Refund refunds a captured payment
func (a *RazorpayAdapter) Refund(ctx context.Context, req payment.RefundRequest) (*payment.Refund, error) {
	if !a.IsConfigured() {
		return nil, payment.ErrGatewayNotConfigured
	}

	body := map[string]any{
		"amount": req.AmountSubunits,
	}
	if len(req.Notes) > 0 {
		body["notes"] = req.Notes
	}

	var resp razorpayRefundResponse
	if err := a.do(ctx, http.MethodPost, "/v1/payments/"+req.PaymentID+"/refund", body, &resp); err != nil {
		return nil, err
	}

	if resp.ID == "" {
		return nil, payment.ErrGatewayInvalidResponse
	}

	return &payment.Refund{
		ID:        resp.ID,
		PaymentID: resp.PaymentID,
		Status:    resp.Status,
	}, nil
}

// do executes one authenticated API call and decodes the JSON response
func (a *RazorpayAdapter) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("razorpay: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("razorpay: failed to build request: %w", err)
	}
	req.SetBasicAuth(a.config.KeyID, a.config.KeySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("Razorpay request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return payment.ErrGatewayOrderNotFound
	}
	if resp.StatusCode >= 400 {
		var gatewayErr razorpayErrorResponse
		if err := json.Unmarshal(data, &gatewayErr); err == nil && gatewayErr.Error.Description != "" {
			a.logger.Warn("Razorpay rejected request",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.String("code", gatewayErr.Error.Code),
				zap.String("description", gatewayErr.Error.Description),
			)
			return fmt.Errorf("%w: %s", payment.ErrGatewayRequestFailed, gatewayErr.Error.Description)
		}
		return fmt.Errorf("%w: status %d", payment.ErrGatewayRequestFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}

	return nil
}

var _ payment.Gateway = (*RazorpayAdapter)(nil)
