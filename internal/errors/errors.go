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

// Is matches two domain errors by code so wrapped copies compare equal.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
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
	// Authentication errors
	ErrUnauthenticated    = NewDomainError("UNAUTHENTICATED", "unauthorized")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid email or password")
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid token")
	ErrTokenExpired       = NewDomainError("TOKEN_EXPIRED", "token has expired")
	ErrEmailNotVerified   = NewDomainError("EMAIL_NOT_VERIFIED", "email not verified")

	// User errors
	ErrUserNotFound = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrEmailExists  = NewDomainError("EMAIL_EXISTS", "email already exists")

	// Verification errors
	ErrVerificationInvalid = NewDomainError("VERIFICATION_INVALID", "verification link is invalid or expired")

	// OAuth errors
	ErrInvalidState        = NewDomainError("INVALID_STATE", "oauth state invalid")
	ErrProviderError       = NewDomainError("PROVIDER_ERROR", "oauth provider returned an error")
	ErrTokenExchangeFailed = NewDomainError("TOKEN_EXCHANGE_FAILED", "token exchange failed")
	ErrUnverifiedEmail     = NewDomainError("UNVERIFIED_EMAIL", "provider email not verified")

	// Job errors
	ErrJobNotFound      = NewDomainError("NOT_FOUND", "not found")
	ErrNoFieldsProvided = NewDomainError("NO_FIELDS", "no fields to update")

	// Request errors
	ErrValidation = NewDomainError("VALIDATION_ERROR", "invalid input")

	// Import errors
	ErrNoItems      = NewDomainError("VALIDATION_ERROR", "items are required")
	ErrNoValidItems = NewDomainError("VALIDATION_ERROR", "no valid items")
	ErrEmptyCSV     = NewDomainError("VALIDATION_ERROR", "csv has no rows")

	// System errors
	ErrUpstream = NewDomainError("UPSTREAM_ERROR", "upstream service failed")
	ErrStorage  = NewDomainError("STORAGE_ERROR", "storage failure")
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
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

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "VALIDATION_ERROR", "NO_FIELDS", "INVALID_STATE", "PROVIDER_ERROR", "VERIFICATION_INVALID":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHENTICATED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"TOKEN_EXPIRED", "TOKEN_EXCHANGE_FAILED":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "EMAIL_NOT_VERIFIED", "UNVERIFIED_EMAIL":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS":
		return http.StatusConflict

	// 502 Bad Gateway
	case "UPSTREAM_ERROR":
		return http.StatusBadGateway

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
