package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcheckout "github.com/shopfront/backend/internal/application/checkout"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
)

// CheckoutHandler handles checkout and order API endpoints
type CheckoutHandler struct {
	BaseHandler
	finalizer *appcheckout.Finalizer
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(finalizer *appcheckout.Finalizer) *CheckoutHandler {
	return &CheckoutHandler{finalizer: finalizer}
}

// RegisterRoutes registers checkout and order routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Checkout)
	rg.POST("/checkout/verify", h.VerifyPayment)

	orders := rg.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
	}
}

// Checkout validates the cart, reserves stock and opens a gateway payment order
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req appcheckout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	resp, err := h.finalizer.Checkout(c.Request.Context(), identity, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// VerifyPayment handles the payment callback the client relays after paying
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req appcheckout.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	view, err := h.finalizer.VerifyPayment(c.Request.Context(), identity, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// ListOrders returns the shopper's orders, newest first
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	views, err := h.finalizer.ListOrders(c.Request.Context(), identity, req.PageSize, req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, views, req.Page, req.PageSize, len(views))
}

// GetOrder returns one of the shopper's orders
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	view, err := h.finalizer.GetOrder(c.Request.Context(), identity, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// CancelOrder cancels an unshipped order and initiates a refund
func (h *CheckoutHandler) CancelOrder(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	// The body is optional; cancelling without a reason is allowed.
	var req appcheckout.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.InvalidJSON(c, err)
			return
		}
	}

	resp, err := h.finalizer.CancelOrder(c.Request.Context(), identity, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
