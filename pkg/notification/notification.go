package notification

import (
	"time"

	"github.com/google/uuid"
)

// Channel identifies a delivery medium.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelPush     Channel = "push"
	ChannelInApp    Channel = "in_app"
	ChannelTelegram Channel = "telegram"
)

// Channels lists every channel the engine knows about.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp, ChannelTelegram}
}

// Valid reports whether the channel is one the engine knows about.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp, ChannelTelegram:
		return true
	}
	return false
}

// Category classifies a notification by its originating domain.
type Category string

const (
	CategoryAcademic       Category = "academic"
	CategoryFinancial      Category = "financial"
	CategoryAdministrative Category = "administrative"
	CategorySecurity       Category = "security"
	CategorySystem         Category = "system"
	CategoryPersonal       Category = "personal"
	CategoryEmergency      Category = "emergency"
)

// Valid reports whether the category is known.
func (c Category) Valid() bool {
	switch c {
	case CategoryAcademic, CategoryFinancial, CategoryAdministrative,
		CategorySecurity, CategorySystem, CategoryPersonal, CategoryEmergency:
		return true
	}
	return false
}

// Priority orders notifications by urgency.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityUrgent   Priority = "urgent"
	PriorityCritical Priority = "critical"
)

var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityNormal:   1,
	PriorityHigh:     2,
	PriorityUrgent:   3,
	PriorityCritical: 4,
}

// Valid reports whether the priority is known.
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// AtLeast reports whether p ranks at or above other.
func (p Priority) AtLeast(other Priority) bool {
	return priorityRank[p] >= priorityRank[other]
}

// Recipient is a read-only snapshot of a user's contact details taken at
// send time, so later profile changes do not rewrite delivery history.
type Recipient struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	TelegramChatID string `json:"telegram_chat_id,omitempty"`
	PushToken      string `json:"push_token,omitempty"`
	Language       string `json:"language,omitempty"`
}

// ContactFor returns the contact field a channel delivers to and whether
// the recipient has it. In-app delivery only needs the user id.
func (r Recipient) ContactFor(c Channel) (string, bool) {
	switch c {
	case ChannelEmail:
		return r.Email, r.Email != ""
	case ChannelSMS:
		return r.Phone, r.Phone != ""
	case ChannelPush:
		return r.PushToken, r.PushToken != ""
	case ChannelTelegram:
		return r.TelegramChatID, r.TelegramChatID != ""
	case ChannelInApp:
		return r.ID, r.ID != ""
	}
	return "", false
}

// Content is the rendered material handed to channel adapters. The
// provenance fields let adapters that persist messages, like in-app, link
// back to the notification; transport adapters ignore them.
type Content struct {
	NotificationID uuid.UUID      `json:"notification_id,omitempty"`
	Category       Category       `json:"category,omitempty"`
	Priority       Priority       `json:"priority,omitempty"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	HTML           string         `json:"html,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
}

// Notification is one send request after rendering. It is created once and
// never mutated except to flip the sent flag.
type Notification struct {
	ID          uuid.UUID      `json:"id"`
	TemplateID  string         `json:"template_id,omitempty"`
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	HTML        string         `json:"html,omitempty"`
	Category    Category       `json:"category"`
	Priority    Priority       `json:"priority"`
	Channels    []Channel      `json:"channels"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IsSent      bool           `json:"is_sent"`
	SentAt      *time.Time     `json:"sent_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Content returns the adapter-facing view of the notification.
func (n *Notification) Content() Content {
	return Content{
		NotificationID: n.ID,
		Category:       n.Category,
		Priority:       n.Priority,
		Title:          n.Title,
		Body:           n.Body,
		HTML:           n.HTML,
		Metadata:       n.Metadata,
		ExpiresAt:      n.ExpiresAt,
	}
}

// IsExpired reports whether the notification has passed its expiry.
func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
