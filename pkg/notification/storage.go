package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage persists notification records.
type Storage interface {
	// Create stores a new notification.
	Create(ctx context.Context, n Notification) error

	// Get retrieves a single notification.
	Get(ctx context.Context, id uuid.UUID) (*Notification, error)

	// MarkSent flips the sent flag. It is the only mutation a notification
	// ever sees.
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
}
