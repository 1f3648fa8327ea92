package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/shopfront/backend/internal/application/inventory"
	"github.com/shopfront/backend/internal/domain/inventory"
)

// AvailabilityQuery identifies the item an availability check asks about
type AvailabilityQuery struct {
	ProductID string `form:"product_id" binding:"required,uuid"`
	VariantID string `form:"variant_id" binding:"omitempty,uuid"`
}

// AdjustStockRequest moves an item's on-hand quantity by a signed delta
type AdjustStockRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	VariantID *uuid.UUID      `json:"variant_id"`
	Delta     decimal.Decimal `json:"delta" binding:"required,dnonzero"`
	Reason    string          `json:"reason"`
}

// AdjustStockResponse reports the item's position after a movement
type AdjustStockResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Reason    string          `json:"reason"`
}

// InventoryHandler handles availability queries and stock adjustments
type InventoryHandler struct {
	BaseHandler
	availability *appinventory.AvailabilityService
	stock        *appinventory.StockMutator
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(availability *appinventory.AvailabilityService, stock *appinventory.StockMutator) *InventoryHandler {
	return &InventoryHandler{
		availability: availability,
		stock:        stock,
	}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.GET("/availability", h.GetAvailability)
		inv.POST("/stock", h.AdjustStock)
	}
}

// GetAvailability reports the sellable quantity of one item
func (h *InventoryHandler) GetAvailability(c *gin.Context) {
	var query AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := parseItemRef(query.ProductID, query.VariantID)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.availability.Availability(c.Request.Context(), item)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AdjustStock applies a signed stock movement with an audit trail
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = inventory.ReasonAdjustment
	}

	record, err := h.stock.UpdateStock(c.Request.Context(),
		inventory.NewItemRef(req.ProductID, req.VariantID), req.Delta, reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AdjustStockResponse{
		ProductID: record.ProductID,
		VariantID: record.VariantID,
		OnHand:    record.OnHand,
		Reason:    reason,
	})
}

// parseItemRef builds an ItemRef from query string UUIDs
func parseItemRef(productID, variantID string) (inventory.ItemRef, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return inventory.ItemRef{}, err
	}
	if variantID == "" {
		return inventory.NewItemRef(pid, nil), nil
	}
	vid, err := uuid.Parse(variantID)
	if err != nil {
		return inventory.ItemRef{}, err
	}
	return inventory.NewItemRef(pid, &vid), nil
}
