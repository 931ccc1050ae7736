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

// ---- Wallet (WAL) ----

func ErrInvalidDocument() *AppError {
	return New("WAL_001", "The cpf/cnpj must be a valid document", http.StatusUnprocessableEntity)
}

func ErrWalletExists() *AppError {
	return New("WAL_002", "A wallet with this cpf/cnpj or email already exists", http.StatusConflict)
}

func ErrWalletNotFound() *AppError {
	return New("WAL_003", "Wallet not found", http.StatusNotFound)
}

// ---- Transfer (TRF) ----

func ErrInsufficientFunds() *AppError {
	return New("TRF_001", "Insufficient balance in payer wallet", http.StatusUnprocessableEntity)
}

func ErrInvalidTransfer(reason string) *AppError {
	return New("TRF_002", reason, http.StatusBadRequest)
}

func ErrTransferNotAllowed() *AppError {
	return New("TRF_003", "Merchant wallets cannot send transfers", http.StatusForbidden)
}

func ErrTransferNotAuthorized() *AppError {
	return New("TRF_004", "Transfer declined by authorization service", http.StatusUnprocessableEntity)
}

func ErrAuthorizationUnavailable(err error) *AppError {
	return Wrap("TRF_005", "Authorization service unavailable", http.StatusServiceUnavailable, err)
}

func ErrTransferNotFound() *AppError {
	return New("TRF_006", "Transfer not found", http.StatusNotFound)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
