package domain

import "errors"

// Failures surfaced to callers of the auth core.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Token codec failures. The access gate never lets these reach a client.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// User store failures.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrEmailInUse   = errors.New("email already in use")
	ErrInvalidInput = errors.New("invalid input")
)
