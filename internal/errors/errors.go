package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code, so wrapped copies compare equal to the predefined values.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Registration and user errors
	ErrPasswordMismatch = NewDomainError("PASSWORD_MISMATCH", "Passwords do not match")
	ErrEmailExists      = NewDomainError("EMAIL_EXISTS", "Email already registered")
	ErrUserNotFound     = NewDomainError("USER_NOT_FOUND", "User not found")
	ErrInactiveUser     = NewDomainError("INACTIVE_USER", "Inactive user")

	// Authentication errors
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "Incorrect email or password")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Not authenticated")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "Could not validate credentials")
	ErrTokenExpired       = NewDomainError("TOKEN_EXPIRED", "Token has expired")
	ErrInvalidSignature   = NewDomainError("INVALID_SIGNATURE", "Could not validate credentials")
	ErrMalformedToken     = NewDomainError("MALFORMED_TOKEN", "Could not validate credentials")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid request")
	ErrRateLimited  = NewDomainError("RATE_LIMITED", "Too many requests")

	// System errors
	ErrStoreUnavailable   = NewDomainError("STORE_UNAVAILABLE", "Internal Server Error")
	ErrTokenSigning       = NewDomainError("TOKEN_SIGNING_FAILURE", "Internal Server Error")
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "Internal Server Error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "Service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsTokenError reports whether err is one of the token validation failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrInvalidToken)
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "PASSWORD_MISMATCH", "EMAIL_EXISTS", "INACTIVE_USER":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"TOKEN_EXPIRED", "INVALID_SIGNATURE", "MALFORMED_TOKEN":
		return http.StatusUnauthorized

	// 404 Not Found
	case "USER_NOT_FOUND":
		return http.StatusNotFound

	// 429 Too Many Requests
	case "RATE_LIMITED":
		return http.StatusTooManyRequests

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage returns the client-safe message of err. Unknown errors never leak their text.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}
