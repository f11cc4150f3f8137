package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to an HTTP response.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // internal cause, never sent to clients
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

// Is matches any AppError carrying the same code, so callers can write
// errors.Is(err, apperror.ErrPermissionDenied()).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrIssuerSuspended() *AppError {
	return New("AUTH_004", "Issuer account is suspended", http.StatusForbidden)
}

// ---- Bank accounts (ACC) ----

func ErrAccountNotFound() *AppError {
	return New("ACC_001", "Bank account not found", http.StatusNotFound)
}

func ErrInvalidRoutingNumber() *AppError {
	return New("ACC_002", "Routing number fails the ABA checksum", http.StatusBadRequest)
}

func ErrAccountInUse() *AppError {
	return New("ACC_003", "Bank account has transactions and cannot be removed", http.StatusConflict)
}

// ErrPermissionDenied is returned when a record belongs to another issuer.
func ErrPermissionDenied() *AppError {
	return New("ACC_403", "Permission denied", http.StatusForbidden)
}

// ---- Payments (PAY) ----

func ErrInvalidAmount() *AppError {
	return New("PAY_001", "Amount must be greater than 0, at most 999,999.99 and have at most two decimals", http.StatusBadRequest)
}

// Validation returns a PAY_002 request validation error.
func Validation(message string) *AppError {
	return New("PAY_002", message, http.StatusBadRequest)
}

func ErrDuplicateTransaction() *AppError {
	return New("PAY_003", "Duplicate transaction", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrNotVoidable() *AppError {
	return New("PAY_005", "Transaction cannot be voided", http.StatusConflict)
}

func ErrPayoutUnavailable() *AppError {
	return New("PAY_006", "Electronic payout is not configured", http.StatusServiceUnavailable)
}

// ---- Check instruments (CHK) ----

func ErrInstrumentUnavailable() *AppError {
	return New("CHK_001", "Check is voided or failed and cannot be rendered", http.StatusConflict)
}

func ErrNotPrintDelivery() *AppError {
	return New("CHK_002", "Transaction was not delivered as a printed check", http.StatusBadRequest)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

func ErrUpstreamUnavailable(err error) *AppError {
	return Wrap("SYS_004", "Upstream service unavailable", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
