package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gamasa/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("check_out must be after check_in")), wantCode: http.StatusBadRequest, wantMsg: "check_out must be after check_in"},
		{name: "bad request from string", err: failure.BadRequestFromString("invalid rating"), wantCode: http.StatusBadRequest, wantMsg: "invalid rating"},
		{name: "unauthorized", err: failure.Unauthorized("Token has expired"), wantCode: http.StatusUnauthorized, wantMsg: "Token has expired"},
		{name: "payment required", err: failure.PaymentRequired("unlock the listing to see the owner contact"), wantCode: http.StatusPaymentRequired, wantMsg: "unlock the listing to see the owner contact"},
		{name: "forbidden", err: failure.Forbidden("not your listing"), wantCode: http.StatusForbidden, wantMsg: "not your listing"},
		{name: "not found", err: failure.NotFound("property not found"), wantCode: http.StatusNotFound, wantMsg: "property not found"},
		{name: "conflict", err: failure.Conflict("dates overlap a confirmed booking"), wantCode: http.StatusConflict, wantMsg: "dates overlap a confirmed booking"},
		{name: "internal", err: failure.InternalError(errors.New("db down")), wantCode: http.StatusInternalServerError, wantMsg: "db down"},
		{name: "predefined", err: failure.InvalidIDParam, wantCode: http.StatusBadRequest, wantMsg: "invalid id parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
			assert.EqualError(t, tt.err, tt.wantMsg)
		})
	}
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("unlock: %w", failure.Conflict("payment already used"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("boom")))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "property not found", failure.PublicMessage(failure.NotFound("property not found")))
	assert.Equal(t, "internal server error", failure.PublicMessage(errors.New("pq: connection refused")))
	assert.Equal(t, "internal server error", failure.PublicMessage(failure.InternalError(errors.New("s3 timeout"))))
}
