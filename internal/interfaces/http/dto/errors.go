package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the shopper lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Storefront business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInsufficientStock is used when stock cannot cover the request
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeEmptyCart is used when checkout is attempted on an empty cart
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeCartInvalid is used when cart validation found per-line violations
	ErrCodeCartInvalid = "ERR_CART_INVALID"
	// ErrCodeAmountMismatch is used when displayed and recomputed totals drift
	ErrCodeAmountMismatch = "ERR_AMOUNT_MISMATCH"
	// ErrCodeProductInactive is used when the product or variant is not for sale
	ErrCodeProductInactive = "ERR_PRODUCT_INACTIVE"
	// ErrCodeVariantRequired is used when a variant product is added without one
	ErrCodeVariantRequired = "ERR_VARIANT_REQUIRED"
	// ErrCodeInvalidCoupon is used when the coupon code is not recognized
	ErrCodeInvalidCoupon = "ERR_INVALID_COUPON"
)

// Payment error codes
const (
	// ErrCodeSignatureInvalid is used when the payment signature fails verification
	ErrCodeSignatureInvalid = "ERR_SIGNATURE_INVALID"
	// ErrCodeGatewayUnavailable is used when the payment gateway is not configured
	ErrCodeGatewayUnavailable = "ERR_GATEWAY_UNAVAILABLE"
	// ErrCodeGatewayFailed is used when a gateway call fails or misbehaves
	ErrCodeGatewayFailed = "ERR_GATEWAY_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:         http.StatusUnprocessableEntity,
	ErrCodeCartInvalid:       http.StatusUnprocessableEntity,
	ErrCodeProductInactive:   http.StatusUnprocessableEntity,
	ErrCodeVariantRequired:   http.StatusUnprocessableEntity,
	ErrCodeInvalidCoupon:     http.StatusUnprocessableEntity,

	// The displayed total no longer matches the recomputed one; the client
	// must refresh and retry -> 409 Conflict
	ErrCodeAmountMismatch: http.StatusConflict,

	// Payment errors
	ErrCodeSignatureInvalid:   http.StatusBadRequest,
	ErrCodeGatewayUnavailable: http.StatusServiceUnavailable,
	ErrCodeGatewayFailed:      http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":      ErrCodeInsufficientStock,
	"EMPTY_CART":              ErrCodeEmptyCart,
	"SIGNATURE_INVALID":       ErrCodeSignatureInvalid,
	"PRODUCT_INACTIVE":        ErrCodeProductInactive,
	"VARIANT_REQUIRED":        ErrCodeVariantRequired,
	"INVALID_COUPON":          ErrCodeInvalidCoupon,
	"INVALID_SUBTOTAL":        ErrCodeInvalidInput,
	"INVALID_SHIPPING_METHOD": ErrCodeInvalidInput,
	"INVALID_IDENTITY":        ErrCodeUnauthorized,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Unknown codes are returned as-is and resolve to 500 via GetHTTPStatus.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
