package preferences

import (
	"context"
	"log/slog"
	"time"

	"github.com/campuskit/notify/pkg/logger"
	"github.com/campuskit/notify/pkg/notification"
)

// FilterReason explains why a configured channel was not attempted.
type FilterReason string

const (
	ReasonCategoryDisabled FilterReason = "category_disabled"
	ReasonUrgentOnly       FilterReason = "urgent_only"
	ReasonQuietHours       FilterReason = "quiet_hours"
	ReasonMissingContact   FilterReason = "missing_contact"
)

// Resolution is the outcome of preference filtering for one recipient:
// the channels to attempt and, for audit, every configured channel that was
// filtered out together with the reason.
type Resolution struct {
	Effective []notification.Channel
	Filtered  map[notification.Channel]FilterReason
}

// Suppressed reports whether nothing will be attempted.
func (r Resolution) Suppressed() bool {
	return len(r.Effective) == 0
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.log = log }
}

// WithResolverClock overrides the time source, used by quiet-hours tests.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// Resolver computes the effective channel set for a (notification,
// recipient) pair from the notification's configured channels, the
// recipient's per-category preferences, quiet hours, and contact info.
type Resolver struct {
	store Storage
	now   func() time.Time
	log   *slog.Logger
}

// NewResolver creates a Resolver backed by the given preference store.
func NewResolver(store Storage, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store: store,
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve filters the notification's configured channels down to the set
// actually attempted for this recipient. The result is always a subset of
// n.Channels; every removed channel appears in Filtered with its reason.
func (r *Resolver) Resolve(ctx context.Context, n *notification.Notification, rec notification.Recipient) (Resolution, error) {
	pref, err := r.store.GetOrCreate(ctx, rec.ID)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Filtered: make(map[notification.Channel]FilterReason)}

	// Urgent-only users receive nothing below high priority; the whole
	// notification is suppressed for them, recorded for audit.
	if pref.UrgentOnly && !n.Priority.AtLeast(notification.PriorityHigh) {
		for _, ch := range n.Channels {
			res.Filtered[ch] = ReasonUrgentOnly
		}
		r.log.LogAttrs(ctx, slog.LevelDebug, "notification suppressed by urgent-only preference",
			logger.NotificationID(n.ID),
			logger.RecipientID(rec.ID),
			logger.Priority(string(n.Priority)),
		)
		return res, nil
	}

	enabled := make(map[notification.Channel]bool)
	for _, ch := range pref.EnabledFor(n.Category) {
		enabled[ch] = true
	}

	quiet := pref.InQuietHours(r.now()) && n.Priority != notification.PriorityCritical

	for _, ch := range n.Channels {
		switch {
		case !enabled[ch]:
			res.Filtered[ch] = ReasonCategoryDisabled
		case quiet && ch != notification.ChannelInApp:
			res.Filtered[ch] = ReasonQuietHours
		default:
			if _, ok := rec.ContactFor(ch); !ok {
				res.Filtered[ch] = ReasonMissingContact
				continue
			}
			res.Effective = append(res.Effective, ch)
		}
	}

	return res, nil
}
