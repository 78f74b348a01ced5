package services

import "errors"

// Error taxonomy surfaced to the transport layer. Handlers translate these
// into HTTP statuses; anything else is a generic persistence failure.
var (
	// ErrNotFound means the referenced deal, redemption, user or reward does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means a transition was attempted from a terminal or wrong state
	ErrInvalidState = errors.New("invalid state for requested transition")
	// ErrInsufficientPoints means a redemption was requested or approved against an insufficient balance
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrDuplicateRequest means a pending redemption already exists for the (user, reward) pair
	ErrDuplicateRequest = errors.New("duplicate pending request")
	// ErrValidation means the input was malformed
	ErrValidation = errors.New("validation failed")
)
