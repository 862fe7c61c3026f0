package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeInvalidCredentials     = "invalid_credentials"
	ErrCodeEmailAlreadyRegistered = "email_already_registered"
	ErrCodeAccountLocked          = "account_locked"
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidRequest         = "invalid_request"
	ErrCodeNotFound               = "not_found"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInternal               = "internal_error"
)
