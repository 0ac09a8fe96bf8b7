package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrInputValidation  ErrorType = "input_validation_error"
	ErrAuthentication   ErrorType = "authentication_error"
	ErrResourceNotFound ErrorType = "resource_not_found"
	ErrConflict         ErrorType = "conflict_error"
	ErrBusinessRule     ErrorType = "business_rule_error"
	ErrOperationTimeout ErrorType = "operation_timeout"
	ErrDatabaseFailure  ErrorType = "database_failure"
	ErrInternal         ErrorType = "internal_error"
)

type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func InputValidationError(message string) *AppError {
	return New(ErrInputValidation, message)
}

func AuthenticationError(message string) *AppError {
	return New(ErrAuthentication, message)
}

func ResourceNotFoundError(message string) *AppError {
	return New(ErrResourceNotFound, message)
}

func ConflictError(message string) *AppError {
	return New(ErrConflict, message)
}

func BusinessRuleError(message string) *AppError {
	return New(ErrBusinessRule, message)
}

func OperationTimeoutError(message string) *AppError {
	return New(ErrOperationTimeout, message)
}

func DatabaseFailureError(message string) *AppError {
	return New(ErrDatabaseFailure, message)
}

func InternalError(message string) *AppError {
	return New(ErrInternal, message)
}

// HandleDBError maps low-level database errors into AppError so that callers
// can surface a retryable "try later" instead of a raw driver error.
func HandleDBError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return OperationTimeoutError(err.Error())
	}

	return DatabaseFailureError(err.Error())
}

// HTTPStatus maps an error to a response status code. Unknown errors are
// treated as internal.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case ErrInputValidation:
		return http.StatusBadRequest
	case ErrAuthentication:
		return http.StatusUnauthorized
	case ErrResourceNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrBusinessRule:
		return http.StatusUnprocessableEntity
	case ErrOperationTimeout:
		return http.StatusGatewayTimeout
	case ErrDatabaseFailure, ErrInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// TypeOf returns the ErrorType carried by err, or ErrInternal.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrInternal
}
