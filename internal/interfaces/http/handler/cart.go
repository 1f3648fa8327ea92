package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcart "github.com/shopfront/backend/internal/application/cart"
)

// CartHandler handles cart API endpoints
type CartHandler struct {
	BaseHandler
	service *appcart.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service *appcart.Service) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.UpdateItem)
		cart.DELETE("", h.Clear)
	}
}

// GetCart returns the shopper's cart, creating an empty one on first use
func (h *CartHandler) GetCart(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	view, err := h.service.GetCart(c.Request.Context(), identity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// AddItem adds a product or variant to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req appcart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	view, err := h.service.AddItem(c.Request.Context(), identity, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// UpdateItem changes a cart line quantity; zero removes the line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}

	var req appcart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	view, err := h.service.UpdateItemQuantity(c.Request.Context(), identity, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Clear empties the shopper's cart
func (h *CartHandler) Clear(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.service.Clear(c.Request.Context(), identity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
