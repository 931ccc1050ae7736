package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("TRF_001", "Insufficient balance in payer wallet", http.StatusUnprocessableEntity),
			expected: "[TRF_001] Insufficient balance in payer wallet",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("TRF_002", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestWalletErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidDocument", ErrInvalidDocument(), "WAL_001", 422},
		{"WalletExists", ErrWalletExists(), "WAL_002", 409},
		{"WalletNotFound", ErrWalletNotFound(), "WAL_003", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestTransferErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InsufficientFunds", ErrInsufficientFunds(), "TRF_001", 422},
		{"InvalidTransfer", ErrInvalidTransfer("payer and payee must differ"), "TRF_002", 400},
		{"TransferNotAllowed", ErrTransferNotAllowed(), "TRF_003", 403},
		{"TransferNotAuthorized", ErrTransferNotAuthorized(), "TRF_004", 422},
		{"AuthorizationUnavailable", ErrAuthorizationUnavailable(fmt.Errorf("timeout")), "TRF_005", 503},
		{"TransferNotFound", ErrTransferNotFound(), "TRF_006", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

// The retryability distinction: an explicit decline is a terminal client
// error, an unavailable authorizer is a retryable server-side condition.
func TestDeclineVsUnavailableAreDistinct(t *testing.T) {
	declined := ErrTransferNotAuthorized()
	unavailable := ErrAuthorizationUnavailable(fmt.Errorf("connection reset"))

	assert.NotEqual(t, declined.Code, unavailable.Code)
	assert.Less(t, declined.HTTPStatus, http.StatusInternalServerError)
	assert.GreaterOrEqual(t, unavailable.HTTPStatus, http.StatusInternalServerError)
}

func TestInternalError(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := InternalError(inner)
	assert.Equal(t, "SYS_001", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.True(t, errors.Is(err, inner))
}

func TestValidation(t *testing.T) {
	err := Validation("amount must be positive")
	assert.Equal(t, "VAL_001", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}
