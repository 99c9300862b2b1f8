package delivery

import "errors"

var (
	// ErrNotFound is returned when an attempt does not exist.
	ErrNotFound = errors.New("delivery: attempt not found")
	// ErrAlreadyExists is returned on a duplicate attempt id.
	ErrAlreadyExists = errors.New("delivery: attempt already exists")
	// ErrInvalidTransition is returned when a status change is not allowed
	// from the attempt's current state.
	ErrInvalidTransition = errors.New("delivery: invalid status transition")
	// ErrAttemptsExhausted is returned when a failure is recorded against
	// an attempt whose budget is already spent.
	ErrAttemptsExhausted = errors.New("delivery: attempts exhausted")
)
