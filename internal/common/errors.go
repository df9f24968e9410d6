// Package common defines shared constants and sentinel errors used across
// the layers of the auth server. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal           = errors.New("internal error")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorDuplicateEmail     = errors.New("email already registered")

	// Auth errors (invalid or malformed access token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrorSessionInactive   = errors.New("session inactive")
	ErrorUserMissing       = errors.New("user missing")
	ErrorAlreadyVerified   = errors.New("email already verified")
)
