package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the engine's failure taxonomy. Every code below is a
// normal business outcome except CodeStorageError, which signals a
// retryable infrastructure fault.
const (
	CodeUnknownIdentity   = "UNKNOWN_IDENTITY"
	CodeDeliveryFailed    = "DELIVERY_FAILED"
	CodeNoOtpIssued       = "NO_OTP_ISSUED"
	CodeOtpAlreadyUsed    = "OTP_ALREADY_USED"
	CodeOtpExpired        = "OTP_EXPIRED"
	CodeWrongOtp          = "WRONG_OTP"
	CodeForbidden         = "FORBIDDEN"
	CodeUserBlocked       = "USER_BLOCKED"
	CodeFileUnavailable   = "FILE_UNAVAILABLE"
	CodeLocationRequired  = "LOCATION_REQUIRED"
	CodeOutsideBoundary   = "OUTSIDE_BOUNDARY"
	CodeDuplicateIdentity = "DUPLICATE_IDENTITY"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeStorageError      = "STORAGE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewUnknownIdentity() error {
	return NewDomainError(CodeUnknownIdentity, "email not registered", http.StatusNotFound, nil)
}

func NewDeliveryFailed(err error) error {
	return &DomainError{
		Code:       CodeDeliveryFailed,
		Message:    "passcode delivery failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewNoOtpIssued() error {
	return NewDomainError(CodeNoOtpIssued, "no passcode issued for this email", http.StatusUnauthorized, nil)
}

func NewOtpAlreadyUsed() error {
	return NewDomainError(CodeOtpAlreadyUsed, "passcode already used", http.StatusUnauthorized, nil)
}

func NewOtpExpired() error {
	return NewDomainError(CodeOtpExpired, "passcode expired", http.StatusUnauthorized, nil)
}

func NewWrongOtp() error {
	return NewDomainError(CodeWrongOtp, "incorrect passcode", http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewUserBlocked() error {
	return NewDomainError(CodeUserBlocked, "user is blocked", http.StatusForbidden, nil)
}

func NewFileUnavailable() error {
	return NewDomainError(CodeFileUnavailable, "file not available", http.StatusNotFound, nil)
}

func NewLocationRequired() error {
	return NewDomainError(CodeLocationRequired, "location required for file access", http.StatusBadRequest, nil)
}

func NewOutsideBoundary() error {
	return NewDomainError(CodeOutsideBoundary, "access denied due to location", http.StatusForbidden, nil)
}

func NewDuplicateIdentity(email string) error {
	return NewDomainError(CodeDuplicateIdentity, "email already registered", http.StatusConflict,
		map[string]any{"email": email})
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewStorageError(err error) error {
	return &DomainError{
		Code:       CodeStorageError,
		Message:    "storage unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
