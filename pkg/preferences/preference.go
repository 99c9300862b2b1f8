package preferences

import (
	"fmt"
	"time"

	"github.com/campuskit/notify/pkg/notification"
)

// TimeOfDay is a wall-clock time without a date, used for quiet hours.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return t, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// minuteOfDay returns minutes since midnight.
func (t TimeOfDay) minuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// Preference holds one user's notification settings: which channels each
// category may use, a quiet-hours window, and an urgent-only switch.
type Preference struct {
	UserID string `json:"user_id"`

	// Channels maps a category to the channels the user allows for it.
	Channels map[notification.Category][]notification.Channel `json:"channels"`

	// UrgentOnly suppresses everything below high priority entirely.
	UrgentOnly bool `json:"urgent_only"`

	// Quiet hours permit only in-app delivery for non-critical
	// notifications. The window may wrap around midnight.
	QuietHoursEnabled bool      `json:"quiet_hours_enabled"`
	QuietStart        TimeOfDay `json:"quiet_start"`
	QuietEnd          TimeOfDay `json:"quiet_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Default returns the preference a user gets on first contact:
// email, push, and in-app enabled for every category; sms and telegram off
// until the user opts in.
func Default(userID string) Preference {
	now := time.Now()
	channels := make(map[notification.Category][]notification.Channel)
	for _, cat := range []notification.Category{
		notification.CategoryAcademic,
		notification.CategoryFinancial,
		notification.CategoryAdministrative,
		notification.CategorySecurity,
		notification.CategorySystem,
		notification.CategoryPersonal,
		notification.CategoryEmergency,
	} {
		channels[cat] = []notification.Channel{
			notification.ChannelEmail,
			notification.ChannelPush,
			notification.ChannelInApp,
		}
	}
	return Preference{
		UserID:    userID,
		Channels:  channels,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EnabledFor returns the channels the user allows for a category. Unknown
// categories fall back to in-app only, the least intrusive medium.
func (p Preference) EnabledFor(cat notification.Category) []notification.Channel {
	if channels, ok := p.Channels[cat]; ok {
		return channels
	}
	return []notification.Channel{notification.ChannelInApp}
}

// InQuietHours reports whether t falls inside the quiet-hours window.
// Windows may wrap around midnight, e.g. 22:00-08:00. The start minute is
// inside the window, the end minute is not.
func (p Preference) InQuietHours(t time.Time) bool {
	if !p.QuietHoursEnabled {
		return false
	}

	now := t.Hour()*60 + t.Minute()
	start := p.QuietStart.minuteOfDay()
	end := p.QuietEnd.minuteOfDay()

	if start <= end {
		return start <= now && now < end
	}
	return now >= start || now < end
}
