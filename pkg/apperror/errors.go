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

// ---- Payment Business Logic (PAY) ----

func ErrInsufficientFunds() *AppError {
	return New("PAY_001", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("PAY_002", "Invalid amount", http.StatusBadRequest)
}

func ErrDuplicateReference(ref string) *AppError {
	return New("PAY_003", fmt.Sprintf("Reference %s already processed", ref), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrLimitExceeded(window string) *AppError {
	return New("PAY_005", fmt.Sprintf("Transaction %s limit exceeded", window), http.StatusUnprocessableEntity)
}

func ErrInvalidCurrency(currency string) *AppError {
	return New("PAY_006", fmt.Sprintf("Unsupported currency %s", currency), http.StatusBadRequest)
}

func ErrWalletInactive() *AppError {
	return New("PAY_007", "Wallet is inactive", http.StatusUnprocessableEntity)
}

func ErrInvalidStateTransition(from string, to string) *AppError {
	return New("PAY_008", fmt.Sprintf("Cannot move transaction from %s to %s", from, to), http.StatusConflict)
}

func ErrCurrencyMismatch() *AppError {
	return New("PAY_009", "Wallet currencies do not match", http.StatusBadRequest)
}

func ErrInsufficientCredit() *AppError {
	return New("PAY_010", "Agent credit line exhausted", http.StatusPaymentRequired)
}

func ErrInvalidOTP() *AppError {
	return New("PAY_011", "Invalid or expired verification code", http.StatusForbidden)
}

func ErrRiskBlocked() *AppError {
	return New("PAY_012", "Transaction blocked by risk review", http.StatusUnprocessableEntity)
}

// ---- Ledger Integrity (LED) ----

func ErrUnbalancedEntry() *AppError {
	return New("LED_001", "Ledger entry does not balance", http.StatusInternalServerError)
}

func ErrIntegrityFault(detail string) *AppError {
	return New("LED_002", fmt.Sprintf("Ledger integrity fault: %s", detail), http.StatusInternalServerError)
}

func ErrNegativeBalance(account string) *AppError {
	return New("LED_003", fmt.Sprintf("Account %s cannot go negative", account), http.StatusUnprocessableEntity)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_002", "Insufficient privileges", http.StatusForbidden)
}

func ErrProfileSuspended() *AppError {
	return New("AUTH_003", "Profile is suspended", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a PAY_002-style validation error.
func Validation(message string) *AppError {
	return New("PAY_002", message, http.StatusBadRequest)
}
