package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RecipientID records the recipient identifier under the key "recipient_id".
// If id is nil, it returns an empty Attr.
func RecipientID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("recipient_id", id)
}

// NotificationID records the notification identifier under the key "notification_id".
// If id is nil, it returns an empty Attr.
func NotificationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("notification_id", id)
}

// JobID records the scheduled job identifier under the key "job_id".
// If id is nil, it returns an empty Attr.
func JobID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("job_id", id)
}

// TemplateID records the template identifier under the key "template_id".
func TemplateID(id string) slog.Attr {
	return slog.String("template_id", id)
}

// Channel records the delivery channel under the key "channel".
func Channel(ch string) slog.Attr {
	return slog.String("channel", ch)
}

// Category records the notification category under the key "category".
func Category(c string) slog.Attr {
	return slog.String("category", c)
}

// Priority records the notification priority under the key "priority".
func Priority(p string) slog.Attr {
	return slog.String("priority", p)
}

// AttemptCount records the delivery attempt count under the key "attempt_count".
func AttemptCount(count int) slog.Attr {
	return slog.Int("attempt_count", count)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
