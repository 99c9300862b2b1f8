package notifier

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/delivery"
	"github.com/campuskit/notify/pkg/notification"
	"github.com/campuskit/notify/pkg/scheduler"
)

// SendRequest describes one notification to deliver. Content comes either
// from a template (TemplateID plus Variables) or inline (Title and Body);
// template requests inherit the template's category, priority, and channels
// for any field left empty.
type SendRequest struct {
	TemplateID string            `json:"template_id,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`

	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	HTML  string `json:"html,omitempty"`

	Category notification.Category  `json:"category,omitempty"`
	Priority notification.Priority  `json:"priority,omitempty"`
	Channels []notification.Channel `json:"channels,omitempty"`

	RecipientIDs []string `json:"recipient_ids"`

	ScheduledAt *time.Time           `json:"scheduled_at,omitempty"`
	ExpiresAt   *time.Time           `json:"expires_at,omitempty"`
	Recurrence  scheduler.Recurrence `json:"recurrence,omitempty"`
	Every       time.Duration        `json:"every,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// SendResult reports what happened to a send request. Exactly one of
// Scheduled and (Dispatched or Queued) applies: scheduled requests produce
// a job, immediate ones are either dispatched synchronously or queued to
// the worker pool by priority.
type SendResult struct {
	NotificationID uuid.UUID `json:"notification_id"`

	Scheduled bool       `json:"scheduled"`
	JobID     *uuid.UUID `json:"job_id,omitempty"`

	Dispatched bool `json:"dispatched"`
	Queued     bool `json:"queued"`

	// MissingVariables lists required template variables the request did
	// not supply; their placeholders stay literal in the rendered content.
	MissingVariables []string `json:"missing_variables,omitempty"`

	// Statuses maps recipient id to per-channel outcome for dispatches
	// that completed before returning. Queued and scheduled sends report
	// through the attempt history once they run.
	Statuses map[string]map[notification.Channel]delivery.Status `json:"statuses,omitempty"`
}
