package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

// InvalidState signals an operation that is not valid for the entity's
// current lifecycle status, e.g. paying an already-paid fine.
func InvalidState(message string, err error) *AppError {
	return &AppError{
		Code:    "INVALID_STATE",
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

func ValidationFailed(message string, err error) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// PaymentNotComplete is returned when the gateway reports the intent has not
// fully settled yet.
func PaymentNotComplete(message string, err error) *AppError {
	return &AppError{
		Code:    "PAYMENT_NOT_COMPLETE",
		Message: message,
		Status:  http.StatusPaymentRequired,
		Err:     err,
	}
}

// Mismatch is returned when a payment intent's correlation metadata does not
// reference the fine it is being confirmed against.
func Mismatch(message string, err error) *AppError {
	return &AppError{
		Code:    "MISMATCH",
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

func SignatureInvalid(message string, err error) *AppError {
	return &AppError{
		Code:    "SIGNATURE_INVALID",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

// GatewayUnavailable marks a transient gateway failure. Callers may retry;
// it is never conflated with PAYMENT_NOT_COMPLETE.
func GatewayUnavailable(message string, err error) *AppError {
	return &AppError{
		Code:    "GATEWAY_UNAVAILABLE",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     nil,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
