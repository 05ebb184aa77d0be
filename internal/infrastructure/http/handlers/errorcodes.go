package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeAccountLocked      = "account_locked"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeInvalidEmail       = "invalid_email"
	ErrCodeEmailRequired      = "email_required"
	ErrCodeNotFound           = "not_found"
	ErrCodeToolNotFound       = "tool_not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeAlreadyPurchased   = "already_purchased"
	ErrCodeInvalidSignature   = "invalid_signature"
	ErrCodeInvalidEvent       = "invalid_event"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeInternal           = "internal_error"
)
