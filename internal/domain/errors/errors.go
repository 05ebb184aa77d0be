package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrAccountLocked      = errors.New("too many failed login attempts")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrToolNotFound       = errors.New("tool not found")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrAlreadyPurchased   = errors.New("you have already purchased this tool")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrMalformedEvent     = errors.New("malformed webhook event")
	ErrPaymentProvider    = errors.New("payment provider error")
	ErrEmailRequired      = errors.New("email is required")
	ErrSubscriberExists   = errors.New("subscriber already exists")
)
