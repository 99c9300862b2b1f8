package delivery

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/logger"
	"github.com/campuskit/notify/pkg/notification"
)

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerLogger sets the logger.
func WithTrackerLogger(log *slog.Logger) TrackerOption {
	return func(t *Tracker) { t.log = log }
}

// WithMaxAttempts sets the retry budget for new attempts.
func WithMaxAttempts(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.maxAttempts = n
		}
	}
}

// Tracker records the lifecycle of every delivery: one row per
// (notification, recipient, channel), including audit rows for channels
// that were never tried.
type Tracker struct {
	store       Storage
	maxAttempts int
	log         *slog.Logger
}

// NewTracker creates a Tracker over the given attempt store.
func NewTracker(store Storage, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:       store,
		maxAttempts: DefaultMaxAttempts,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin opens a pending attempt for a channel about to be tried.
func (t *Tracker) Begin(ctx context.Context, n *notification.Notification, recipientID string, ch notification.Channel) (*Attempt, error) {
	attempt := Attempt{
		ID:             uuid.New(),
		NotificationID: n.ID,
		RecipientID:    recipientID,
		Channel:        ch,
		Status:         StatusPending,
		MaxAttempts:    t.maxAttempts,
	}
	if err := t.store.Create(ctx, attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Succeed marks an attempt sent with the provider's reference.
func (t *Tracker) Succeed(ctx context.Context, id uuid.UUID, providerRef string) (*Attempt, error) {
	attempt, err := t.store.MarkSent(ctx, id, providerRef)
	if err != nil {
		return nil, err
	}
	t.log.LogAttrs(ctx, slog.LevelInfo, "notification sent",
		logger.NotificationID(attempt.NotificationID),
		logger.RecipientID(attempt.RecipientID),
		logger.Channel(string(attempt.Channel)),
		logger.AttemptCount(attempt.AttemptCount),
	)
	return attempt, nil
}

// Fail records a failed wire call. The returned retry flag is true while
// the attempt budget is not exhausted.
func (t *Tracker) Fail(ctx context.Context, id uuid.UUID, cause string) (*Attempt, bool, error) {
	attempt, err := t.store.RecordFailure(ctx, id, cause)
	if err != nil {
		return nil, false, err
	}

	retry := attempt.Status == StatusPending
	level := slog.LevelWarn
	if !retry {
		level = slog.LevelError
	}
	t.log.LogAttrs(ctx, level, "notification delivery failed",
		logger.NotificationID(attempt.NotificationID),
		logger.RecipientID(attempt.RecipientID),
		logger.Channel(string(attempt.Channel)),
		logger.AttemptCount(attempt.AttemptCount),
		slog.String("cause", cause),
		slog.Bool("will_retry", retry),
	)
	return attempt, retry, nil
}

// Deliver confirms receipt, typically from a provider webhook.
func (t *Tracker) Deliver(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	return t.store.MarkDelivered(ctx, id)
}

// Bounce records a provider bounce.
func (t *Tracker) Bounce(ctx context.Context, id uuid.UUID, reason string) (*Attempt, error) {
	return t.store.MarkBounced(ctx, id, reason)
}

// Audit records a terminal row for a channel that was never tried, so
// suppression decisions stay visible in delivery history.
func (t *Tracker) Audit(ctx context.Context, n *notification.Notification, recipientID string, ch notification.Channel, status Status, reason string) error {
	if status != StatusSuppressed && status != StatusSkipped {
		return ErrInvalidTransition
	}
	return t.store.Create(ctx, Attempt{
		ID:             uuid.New(),
		NotificationID: n.ID,
		RecipientID:    recipientID,
		Channel:        ch,
		Status:         status,
		MaxAttempts:    t.maxAttempts,
		Reason:         reason,
	})
}

// History lists attempts for a notification, newest first.
func (t *Tracker) History(ctx context.Context, notificationID uuid.UUID) ([]Attempt, error) {
	return t.store.List(ctx, Filter{NotificationID: notificationID})
}

// RecipientHistory lists attempts for a recipient, newest first.
func (t *Tracker) RecipientHistory(ctx context.Context, recipientID string, limit, offset int) ([]Attempt, error) {
	return t.store.List(ctx, Filter{RecipientID: recipientID, Limit: limit, Offset: offset})
}

// Stats aggregates a notification's attempts into per-channel status
// counts for the audit surface.
func (t *Tracker) Stats(ctx context.Context, notificationID uuid.UUID) (map[notification.Channel]map[Status]int, error) {
	attempts, err := t.store.List(ctx, Filter{NotificationID: notificationID})
	if err != nil {
		return nil, err
	}

	stats := make(map[notification.Channel]map[Status]int)
	for _, a := range attempts {
		byStatus, ok := stats[a.Channel]
		if !ok {
			byStatus = make(map[Status]int)
			stats[a.Channel] = byStatus
		}
		byStatus[a.Status]++
	}
	return stats, nil
}
