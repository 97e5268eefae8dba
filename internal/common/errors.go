// Package common defines shared constants and sentinel errors used across
// client and server layers of cyberspace. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateIdentity = errors.New("email or mobile number already registered")
	ErrStoreUnavailable  = errors.New("store unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal  = errors.New("internal error")
	ErrRateLimited = errors.New("too many requests")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	// One-time code lifecycle errors.
	ErrCodeNotFoundOrConsumed = errors.New("invalid or already used code")
	ErrCodeExpired            = errors.New("code expired")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Blob storage errors.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrWriteFailure         = errors.New("file write failure")

	// Validation errors.
	ErrorValidation = errors.New("validation error")
)
