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
			appErr:   New("TRF_002", "Insufficient balance in wallet", http.StatusUnprocessableEntity),
			expected: "[TRF_002] Insufficient balance in wallet",
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
	appErr := New("VAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestAccountErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAccount", ErrInvalidAccount(), "ACC_001", 404},
		{"AccountDisabled", ErrAccountDisabled(), "ACC_002", 403},
		{"AccountBlacklisted", ErrAccountBlacklisted(), "ACC_003", 403},
		{"PaymentRestricted", ErrPaymentRestricted(), "ACC_004", 403},
		{"ReceiveRestricted", ErrReceiveRestricted(), "ACC_005", 422},
		{"DailyLimitExceeded", ErrDailyLimitExceeded(), "ACC_006", 422},
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
		{"SelfTransfer", ErrSelfTransfer(), "TRF_001", 422},
		{"InsufficientFunds", ErrInsufficientFunds(), "TRF_002", 422},
		{"InvalidAmount", ErrInvalidAmount(), "TRF_003", 400},
		{"CurrencyMismatch", ErrInvalidCurrencyExchange(), "TRF_004", 422},
		{"InvalidatedTransfer", ErrInvalidatedTransfer(), "TRF_005", 409},
		{"DuplicateReference", ErrDuplicateReference(), "TRF_006", 409},
		{"UnhandledWebhookEvent", ErrUnhandledWebhookEvent("charge.dispute"), "TRF_007", 422},
		{"NotFound", ErrNotFound("transaction"), "TRF_008", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestProviderErrors(t *testing.T) {
	inner := fmt.Errorf("provider returned 502")
	provErr := ErrProviderFailure(inner)
	assert.Equal(t, "PRV_001", provErr.Code)
	assert.Equal(t, 500, provErr.HTTPStatus)
	assert.True(t, errors.Is(provErr, inner))

	unknownErr := ErrUnknownProvider("monzo")
	assert.Equal(t, "PRV_002", unknownErr.Code)
	assert.Contains(t, unknownErr.Message, "monzo")

	sigErr := ErrInvalidWebhookSignature()
	assert.Equal(t, "PRV_003", sigErr.Code)
	assert.Equal(t, 401, sigErr.HTTPStatus)
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"InvalidToken", ErrInvalidToken(), "AUTH_002", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestLockError(t *testing.T) {
	err := ErrTransferInProgress()
	assert.Equal(t, "LCK_001", err.Code)
	assert.Equal(t, 409, err.HTTPStatus)
}

func TestSystemError(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	sysErr := InternalError(inner)
	assert.Equal(t, "SYS_001", sysErr.Code)
	assert.Equal(t, 500, sysErr.HTTPStatus)
	assert.True(t, errors.Is(sysErr, inner))
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}

func TestUnhandledWebhookMessage(t *testing.T) {
	err := ErrUnhandledWebhookEvent("charge.dispute")
	assert.Contains(t, err.Message, "charge.dispute")
}
