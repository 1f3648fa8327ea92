package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInsufficientStock))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeEmptyCart))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeAmountMismatch))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ErrCodeSignatureInvalid))
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(ErrCodeGatewayUnavailable))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_SOMETHING_NEW"))
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeEmptyCart, NormalizeErrorCode("EMPTY_CART"))
	assert.Equal(t, ErrCodeSignatureInvalid, NormalizeErrorCode("SIGNATURE_INVALID"))
	assert.Equal(t, ErrCodeInvalidCoupon, NormalizeErrorCode("INVALID_COUPON"))

	// Already-normalized and unknown codes pass through unchanged
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "SOMETHING_ELSE", NormalizeErrorCode("SOMETHING_ELSE"))
}

func TestListRequest_Normalize(t *testing.T) {
	var req ListRequest
	req.Normalize()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)
	assert.Equal(t, 0, req.Offset())

	req = ListRequest{Page: 3, PageSize: 10}
	req.Normalize()
	assert.Equal(t, 20, req.Offset())
}
