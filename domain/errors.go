package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"

	// Credential verification failures. Kept distinct so callers can decide
	// whether to prompt a re-login (expired) or reject outright.
	ErrCodeTokenSignature ErrorCode = "TOKEN_INVALID_SIGNATURE"
	ErrCodeTokenMalformed ErrorCode = "TOKEN_MALFORMED"
	ErrCodeTokenExpired   ErrorCode = "TOKEN_EXPIRED"

	// Provider exchange failures. Unreachable is client-retryable, rejected is not.
	ErrCodeProviderRejected    ErrorCode = "PROVIDER_REJECTED"
	ErrCodeProviderUnreachable ErrorCode = "PROVIDER_UNREACHABLE"

	// Profile consistency failures.
	ErrCodeIrreconcilable      ErrorCode = "IRRECONCILABLE_PROFILE"
	ErrCodeProfileMismatch     ErrorCode = "PROFILE_MISMATCH"
	ErrCodeConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"

	// Avatar upload failures.
	ErrCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeStorageFailure   ErrorCode = "STORAGE_FAILURE"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrProfileNotFound    = NewError(ErrCodeNotFound, "profile not found")
	ErrFreelancerNotFound = NewError(ErrCodeNotFound, "freelancer not found")
	ErrStateNotFound      = NewError(ErrCodeNotFound, "login state not found")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")

	ErrTokenSignature = NewError(ErrCodeTokenSignature, "credential signature invalid")
	ErrTokenMalformed = NewError(ErrCodeTokenMalformed, "credential malformed")
	ErrTokenExpired   = NewError(ErrCodeTokenExpired, "credential expired")

	ErrProviderRejected    = NewError(ErrCodeProviderRejected, "provider rejected the exchange")
	ErrProviderUnreachable = NewError(ErrCodeProviderUnreachable, "provider unreachable")

	ErrIrreconcilableProfile = NewError(ErrCodeIrreconcilable, "profile cannot be synthesized from role record")
	ErrProfileMismatch       = NewError(ErrCodeProfileMismatch, "role record and profile disagree")
	ErrConcurrencyConflict   = NewError(ErrCodeConcurrencyConflict, "profile was modified concurrently")

	ErrUnsupportedMedia = NewError(ErrCodeUnsupportedMedia, "avatar must be an image")
	ErrPayloadTooLarge  = NewError(ErrCodePayloadTooLarge, "avatar exceeds the upload size limit")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
