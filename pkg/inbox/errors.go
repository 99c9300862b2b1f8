package inbox

import "errors"

var (
	// ErrNotFound is returned when a message does not exist for the user.
	ErrNotFound = errors.New("inbox: message not found")
	// ErrMissingUserID is returned when a message is stored without a user id.
	ErrMissingUserID = errors.New("inbox: missing user id")
	// ErrMissingID is returned when a message is stored without an id.
	ErrMissingID = errors.New("inbox: missing message id")
)
