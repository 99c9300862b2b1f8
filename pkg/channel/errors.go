package channel

import (
	"errors"
	"fmt"

	"github.com/campuskit/notify/pkg/notification"
)

var (
	// ErrUnsupportedChannel is returned when no adapter is registered for
	// a requested channel.
	ErrUnsupportedChannel = errors.New("channel: unsupported channel")
	// ErrDuplicateAdapter is returned when two adapters claim the same channel.
	ErrDuplicateAdapter = errors.New("channel: duplicate adapter")
	// ErrInvalidConfig is returned by adapter constructors on bad configuration.
	ErrInvalidConfig = errors.New("channel: invalid config")
)

// TransportError wraps a failure that a later attempt may succeed past:
// timeouts, connection resets, provider 5xx and rate-limit responses.
type TransportError struct {
	Channel notification.Channel
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("channel %s: transport error: %v", e.Channel, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PermanentError wraps a failure no retry will fix: invalid addresses,
// rejected payloads, revoked tokens, provider 4xx responses.
type PermanentError struct {
	Channel notification.Channel
	Err     error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("channel %s: permanent error: %v", e.Channel, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is worth another delivery attempt.
// Unclassified errors are treated as retryable so flaky adapters do not
// silently drop messages.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var perm *PermanentError
	return !errors.As(err, &perm)
}
