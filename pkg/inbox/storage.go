package inbox

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/notification"
)

// ListOptions filters and paginates inbox listings. Expired messages are
// never returned regardless of options.
type ListOptions struct {
	Limit      int
	Offset     int
	OnlyUnread bool
	Categories []notification.Category
	Since      *time.Time
}

// Storage persists in-app inbox messages.
type Storage interface {
	// Create stores a new message.
	Create(ctx context.Context, msg Message) error

	// Get retrieves one of a user's messages, ErrNotFound if absent.
	Get(ctx context.Context, userID string, id uuid.UUID) (*Message, error)

	// List returns a user's messages, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Message, error)

	// MarkRead marks the given messages as read. Unknown ids are ignored.
	MarkRead(ctx context.Context, userID string, ids ...uuid.UUID) error

	// CountUnread returns the number of unread, unexpired messages.
	CountUnread(ctx context.Context, userID string) (int, error)

	// Delete removes messages. Unknown ids are ignored.
	Delete(ctx context.Context, userID string, ids ...uuid.UUID) error
}
