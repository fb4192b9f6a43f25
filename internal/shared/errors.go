package shared

import "errors"

var (
	// ErrValidation indicates missing or malformed required fields.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail occurs when registering an email already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidOrExpiredToken occurs on bad or stale reset tokens.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	// ErrInsufficientStock occurs when a sale asks for more units than available.
	ErrInsufficientStock = errors.New("insufficient stock")
)
