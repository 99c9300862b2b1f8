package template

import (
	"time"

	"github.com/campuskit/notify/pkg/notification"
)

// Localization carries a translated variant of a template's content.
type Localization struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	HTML  string `json:"html,omitempty"`
}

// Template declares reusable notification content with `{var}` placeholders.
//
// Templates are immutable once a notification references them; content
// changes ship as new templates so delivery history stays reproducible.
type Template struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Category        notification.Category    `json:"category"`
	TitleTemplate   string                   `json:"title_template"`
	BodyTemplate    string                   `json:"body_template"`
	HTMLTemplate    string                   `json:"html_template,omitempty"`
	Variables       []string                 `json:"variables,omitempty"` // required variable names
	DefaultChannels []notification.Channel   `json:"default_channels"`
	DefaultPriority notification.Priority    `json:"default_priority"`
	Localized       map[string]Localization  `json:"localized,omitempty"` // keyed by BCP 47 tag
	IsActive        bool                     `json:"is_active"`
	CreatedAt       time.Time                `json:"created_at"`
}
