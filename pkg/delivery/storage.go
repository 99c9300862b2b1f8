package delivery

import (
	"context"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/notification"
)

// Filter narrows attempt listings. Zero fields match everything.
type Filter struct {
	NotificationID uuid.UUID
	RecipientID    string
	Channel        notification.Channel
	Status         Status
	Limit          int
	Offset         int
}

// Storage persists delivery attempts.
type Storage interface {
	// Create stores a new attempt.
	Create(ctx context.Context, attempt Attempt) error

	// Get retrieves one attempt, ErrNotFound if absent.
	Get(ctx context.Context, id uuid.UUID) (*Attempt, error)

	// MarkSent transitions pending -> sent, recording the provider's
	// reference and incrementing the attempt count.
	MarkSent(ctx context.Context, id uuid.UUID, providerRef string) (*Attempt, error)

	// MarkDelivered transitions sent -> delivered, typically driven by a
	// provider webhook.
	MarkDelivered(ctx context.Context, id uuid.UUID) (*Attempt, error)

	// MarkBounced transitions to bounced with the provider's reason.
	MarkBounced(ctx context.Context, id uuid.UUID, reason string) (*Attempt, error)

	// RecordFailure increments the attempt count and stores the cause.
	// The status becomes failed once the budget is exhausted and stays
	// pending otherwise so a retry can pick the attempt up.
	RecordFailure(ctx context.Context, id uuid.UUID, cause string) (*Attempt, error)

	// List returns attempts matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]Attempt, error)
}
