package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("%w: name is required", common.ErrorValidation), http.StatusBadRequest, "name is required"},
		{common.ErrorValidation, http.StatusBadRequest, "validation error"},
		{common.ErrTooManyImages, http.StatusBadRequest, common.ErrTooManyImages.Error()},
		{common.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
		{fmt.Errorf("%w: signature is invalid", common.ErrInvalidToken), http.StatusUnauthorized, "invalid token: signature is invalid"},
		{fmt.Errorf("%w: not your booking", common.ErrorForbidden), http.StatusForbidden, "not your booking"},
		{fmt.Errorf("%w: car not found", common.ErrorNotFound), http.StatusNotFound, "car not found"},
		{fmt.Errorf("lookup failed: %w", common.ErrorNotFound), http.StatusNotFound, "not found"},
		{fmt.Errorf("%w: checkout already used", common.ErrorConflict), http.StatusConflict, "checkout already used"},
		{common.ErrCarNotAvailable, http.StatusConflict, "car is not available"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		status, msg := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.msg, msg, tt.err.Error())
	}
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "email", lowerFirst("Email"))
	assert.Equal(t, "fuelType", lowerFirst("FuelType"))
	assert.Equal(t, "", lowerFirst(""))
}
