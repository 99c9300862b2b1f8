package preferences

import "errors"

var (
	// ErrNotFound is returned when no preference row exists for a user.
	ErrNotFound = errors.New("preferences: not found")
	// ErrMissingUserID is returned when a preference is stored without a user id.
	ErrMissingUserID = errors.New("preferences: missing user id")
	// ErrInvalidTimeOfDay is returned when a quiet-hours boundary cannot be parsed.
	ErrInvalidTimeOfDay = errors.New("preferences: invalid time of day")
)
