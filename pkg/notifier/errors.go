package notifier

import "errors"

var (
	// ErrNoRecipients is returned when a send request names nobody.
	ErrNoRecipients = errors.New("notifier: no recipients")
	// ErrNoContent is returned when a request has neither a template nor
	// inline content.
	ErrNoContent = errors.New("notifier: no content")
	// ErrNoChannels is returned when no channel can be determined for a
	// request.
	ErrNoChannels = errors.New("notifier: no channels")
	// ErrInvalidCategory is returned for an unknown category.
	ErrInvalidCategory = errors.New("notifier: invalid category")
	// ErrInvalidPriority is returned for an unknown priority.
	ErrInvalidPriority = errors.New("notifier: invalid priority")
	// ErrInvalidChannel is returned for an unknown channel.
	ErrInvalidChannel = errors.New("notifier: invalid channel")
	// ErrUnknownRecipient is returned when the directory cannot resolve a
	// recipient id.
	ErrUnknownRecipient = errors.New("notifier: unknown recipient")
	// ErrSchedulingUnavailable is returned for a scheduled request when no
	// scheduler is wired.
	ErrSchedulingUnavailable = errors.New("notifier: scheduling unavailable")
	// ErrPoolStopped is returned when work is submitted to a pool that is
	// shutting down.
	ErrPoolStopped = errors.New("notifier: worker pool stopped")
)
