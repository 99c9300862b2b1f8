package inbox

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/notification"
)

// Message is one in-app inbox entry. It keeps a reference back to the
// notification that produced it so the inbox and delivery history line up.
type Message struct {
	ID             uuid.UUID             `json:"id"`
	UserID         string                `json:"user_id"`
	NotificationID uuid.UUID             `json:"notification_id"`
	Category       notification.Category `json:"category"`
	Priority       notification.Priority `json:"priority"`
	Title          string                `json:"title"`
	Body           string                `json:"body"`
	Metadata       map[string]any        `json:"metadata,omitempty"`
	Read           bool                  `json:"read"`
	ReadAt         *time.Time            `json:"read_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	ExpiresAt      *time.Time            `json:"expires_at,omitempty"`
}

// IsExpired reports whether the message has passed its expiry.
func (m *Message) IsExpired(now time.Time) bool {
	return m.ExpiresAt != nil && now.After(*m.ExpiresAt)
}

// MarkRead flips the read flag and stamps the time.
func (m *Message) MarkRead(now time.Time) {
	if m.Read {
		return
	}
	m.Read = true
	m.ReadAt = &now
}
