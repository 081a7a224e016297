package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation returns a 400 for malformed input, surfaced verbatim.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Account invariants (ACC) ----

func ErrInvalidAccount() *AppError {
	return New("ACC_001", "Account not found", http.StatusNotFound)
}

func ErrAccountDisabled() *AppError {
	return New("ACC_002", "Account is disabled", http.StatusForbidden)
}

func ErrAccountBlacklisted() *AppError {
	return New("ACC_003", "Account is blacklisted", http.StatusForbidden)
}

func ErrPaymentRestricted() *AppError {
	return New("ACC_004", "Account is restricted from sending payments", http.StatusForbidden)
}

func ErrReceiveRestricted() *AppError {
	return New("ACC_005", "Account is restricted from receiving payments", http.StatusUnprocessableEntity)
}

func ErrDailyLimitExceeded() *AppError {
	return New("ACC_006", "Daily transaction limit exceeded", http.StatusUnprocessableEntity)
}

// ---- Transfer business rules (TRF) ----

func ErrSelfTransfer() *AppError {
	return New("TRF_001", "Cannot transfer to the same account", http.StatusUnprocessableEntity)
}

func ErrInsufficientFunds() *AppError {
	return New("TRF_002", "Insufficient balance in wallet", http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New("TRF_003", "Invalid amount", http.StatusBadRequest)
}

func ErrInvalidCurrencyExchange() *AppError {
	return New("TRF_004", "Sender and receiver currencies do not match", http.StatusUnprocessableEntity)
}

func ErrInvalidatedTransfer() *AppError {
	return New("TRF_005", "Transfer validation code is invalid or already used", http.StatusConflict)
}

func ErrDuplicateReference() *AppError {
	return New("TRF_006", "Duplicate transaction reference", http.StatusConflict)
}

func ErrUnhandledWebhookEvent(event string) *AppError {
	return New("TRF_007", fmt.Sprintf("Unhandled webhook event: %s", event), http.StatusUnprocessableEntity)
}

func ErrNotFound(entity string) *AppError {
	return New("TRF_008", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Concurrency (LCK) ----

// ErrTransferInProgress is retryable: the caller's previous transfer still
// holds the per-user lock.
func ErrTransferInProgress() *AppError {
	return New("LCK_001", "Another transfer is in progress, try again", http.StatusConflict)
}

// ---- Provider (PRV) ----

// ErrProviderFailure is deliberately opaque; the provider's failure body is
// logged, never surfaced.
func ErrProviderFailure(err error) *AppError {
	return Wrap("PRV_001", "Payment provider request failed", http.StatusInternalServerError, err)
}

func ErrUnknownProvider(name string) *AppError {
	return New("PRV_002", fmt.Sprintf("No gateway configured for provider %q", name), http.StatusInternalServerError)
}

func ErrInvalidWebhookSignature() *AppError {
	return New("PRV_003", "Webhook signature verification failed", http.StatusUnauthorized)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
