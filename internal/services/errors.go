package services

import "errors"

// Service error taxonomy. Handlers map these to HTTP status codes and JSON
// envelopes; services and repositories never decide presentation.
var (
	// ErrValidation covers bad or missing input, including uniqueness
	// violations reported back to the caller.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers missing entities and ownership misses. A cart row
	// belonging to another user is reported as not found, never forbidden.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock rejects cart quantities exceeding product stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidCredentials is deliberately generic: it never reveals
	// whether the name or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
