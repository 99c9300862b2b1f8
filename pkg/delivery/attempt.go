package delivery

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/notification"
)

// Status tracks one delivery attempt through its lifecycle. Suppressed and
// skipped are terminal audit states: the channel was never tried, either
// because preferences filtered it or no adapter was configured.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSent       Status = "sent"
	StatusDelivered  Status = "delivered"
	StatusFailed     Status = "failed"
	StatusBounced    Status = "bounced"
	StatusSuppressed Status = "suppressed"
	StatusSkipped    Status = "skipped"
)

// Valid reports whether the status is known.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusDelivered, StatusFailed,
		StatusBounced, StatusSuppressed, StatusSkipped:
		return true
	}
	return false
}

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusFailed, StatusBounced, StatusSuppressed, StatusSkipped:
		return true
	}
	return false
}

// DefaultMaxAttempts caps retries per (notification, recipient, channel).
const DefaultMaxAttempts = 3

// Attempt is one (notification, recipient, channel) delivery record. A
// retried send reuses the row, incrementing AttemptCount, so history shows
// one line per channel rather than one per wire call.
type Attempt struct {
	ID             uuid.UUID            `json:"id"`
	NotificationID uuid.UUID            `json:"notification_id"`
	RecipientID    string               `json:"recipient_id"`
	Channel        notification.Channel `json:"channel"`
	Status         Status               `json:"status"`
	AttemptCount   int                  `json:"attempt_count"`
	MaxAttempts    int                  `json:"max_attempts"`
	ProviderRef    string               `json:"provider_ref,omitempty"`
	LastError      string               `json:"last_error,omitempty"`
	Reason         string               `json:"reason,omitempty"`
	SentAt         *time.Time           `json:"sent_at,omitempty"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Exhausted reports whether the attempt budget is spent.
func (a *Attempt) Exhausted() bool {
	return a.AttemptCount >= a.MaxAttempts
}
