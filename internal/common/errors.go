// Package common defines shared sentinel errors and small helpers used across
// the Relief client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage errors. Always recovered locally on the content path.
	ErrStorage = errors.New("storage error")

	// Auth errors surfaced to the user as messages.
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrNotAuthenticated      = errors.New("no user is logged in")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

	// Input validation.
	ErrValidation = errors.New("validation error")

	// Outbound delivery failures (generic, the user must resubmit).
	ErrDeliveryFailed       = errors.New("failed to deliver request")
	ErrAssistantUnavailable = errors.New("assistant unavailable")
)
