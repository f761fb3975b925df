package dto

import (
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/retailops/backend/internal/domain/shared"
)

func TestFromError_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "not found",
			err:        shared.NewNotFoundError("Invoice"),
			wantCode:   ErrCodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "validation",
			err:        shared.NewValidationError("Quantity must be positive"),
			wantCode:   ErrCodeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "conflict",
			err:        shared.NewDomainError(shared.CodeConflict, "Already exists"),
			wantCode:   ErrCodeConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "insufficient stock is a business rule error",
			err:        shared.NewInsufficientStockError("Widget", "L", decimal.NewFromInt(2), decimal.NewFromInt(5)),
			wantCode:   ErrCodeInsufficientStock,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing ledger account",
			err:        shared.NewAccountNotFoundError("Sales Revenue"),
			wantCode:   ErrCodeAccountNotFound,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := FromError(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, message)
			assert.Equal(t, tt.wantStatus, GetHTTPStatus(code))
		})
	}
}

func TestFromError_HidesInternalDetail(t *testing.T) {
	code, message := FromError(errors.New("pq: connection refused at 10.0.0.3"))
	assert.Equal(t, ErrCodeInternal, code)
	assert.Equal(t, "Internal server error", message)
	assert.NotContains(t, message, "10.0.0.3")
}

func TestFromError_KeepsStockMessageActionable(t *testing.T) {
	err := shared.NewInsufficientStockError("Widget", "L", decimal.NewFromInt(2), decimal.NewFromInt(5))
	_, message := FromError(err)
	assert.Contains(t, message, "Widget (L)")
	assert.Contains(t, message, "available 2")
	assert.Contains(t, message, "required 5")
}

func TestGetHTTPStatus_UnknownCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_SOMETHING_NEW"))
}
