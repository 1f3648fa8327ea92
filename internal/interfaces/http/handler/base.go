package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appcheckout "github.com/shopfront/backend/internal/application/checkout"
	"github.com/shopfront/backend/internal/domain/inventory"
	"github.com/shopfront/backend/internal/domain/payment"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// identity returns the shopper identity resolved by the middleware. A
// missing identity means the route was wired without it; respond 401 and
// report false.
func (h *BaseHandler) identity(c *gin.Context) (valueobject.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Shopper identity not established")
		return valueobject.Identity{}, false
	}
	return identity, true
}

// Success sends a 200 success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, page, pageSize, count int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, page, pageSize, count))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InvalidJSON sends a 400 response for an unparseable request body
func (h *BaseHandler) InvalidJSON(c *gin.Context, err error) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
}

// HandleError translates application and domain errors to HTTP responses.
// Structured errors (cart violations, amount drift, stock shortages) keep
// their payloads so the client can show the shopper what to fix.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var validationErr *appcheckout.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
			dto.ErrCodeCartInvalid, "Cart validation failed", requestID, validationErr.Violations))
		return
	}

	var mismatchErr *appcheckout.AmountMismatchError
	if errors.As(err, &mismatchErr) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeAmountMismatch), dto.NewErrorResponseWithDetails(
			dto.ErrCodeAmountMismatch, "Cart total changed, refresh and try again", requestID, mismatchErr))
		return
	}

	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
			dto.ErrCodeInsufficientStock, "Not enough stock available", requestID, stockErr.Shortages))
		return
	}

	if code, ok := gatewayErrorCode(err); ok {
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, err.Error(), requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}

// gatewayErrorCode maps payment gateway failures to API error codes
func gatewayErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, payment.ErrGatewayNotConfigured):
		return dto.ErrCodeGatewayUnavailable, true
	case errors.Is(err, payment.ErrGatewayOrderNotFound):
		return dto.ErrCodeNotFound, true
	case errors.Is(err, payment.ErrGatewayRequestFailed),
		errors.Is(err, payment.ErrGatewayInvalidResponse),
		errors.Is(err, payment.ErrRefundRejected):
		return dto.ErrCodeGatewayFailed, true
	}
	return "", false
}
