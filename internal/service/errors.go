package service

import "errors"

// Every mutating operation either fully succeeds or fails with one of these,
// leaving state unchanged. All of them are recoverable at the caller.
var (
	// ErrNotFound means the referenced entity id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means a transition was attempted from a terminal or
	// wrong state.
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicateRequest means a pending request already exists for the
	// same (from, to, opportunity) triple. Callers should treat it as
	// "already sent", not as a failure.
	ErrDuplicateRequest = errors.New("duplicate request")

	// ErrNotEligible means feedback was submitted without a qualifying
	// completed interaction.
	ErrNotEligible = errors.New("not eligible")

	// ErrValidation means the input was empty or malformed.
	ErrValidation = errors.New("validation error")

	// ErrForbidden means the actor is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
)
