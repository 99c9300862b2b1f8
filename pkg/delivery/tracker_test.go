package delivery_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/delivery"
	"github.com/campuskit/notify/pkg/notification"
)

func newNotification() *notification.Notification {
	return &notification.Notification{
		ID:       uuid.New(),
		Title:    "Payment Due",
		Body:     "Your tuition payment is due.",
		Category: notification.CategoryFinancial,
		Priority: notification.PriorityHigh,
		Channels: []notification.Channel{notification.ChannelEmail},
	}
}

func TestTracker_SuccessPath(t *testing.T) {
	t.Parallel()

	tracker := delivery.NewTracker(delivery.NewMemoryStorage())
	ctx := context.Background()
	n := newNotification()

	attempt, err := tracker.Begin(ctx, n, "student-1", notification.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusPending, attempt.Status)
	assert.Equal(t, 0, attempt.AttemptCount)

	sent, err := tracker.Succeed(ctx, attempt.ID, "pm-msg-1")
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusSent, sent.Status)
	assert.Equal(t, 1, sent.AttemptCount)
	assert.Equal(t, "pm-msg-1", sent.ProviderRef)
	require.NotNil(t, sent.SentAt)

	delivered, err := tracker.Deliver(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
}

func TestTracker_TwoFailuresThenSuccess(t *testing.T) {
	t.Parallel()

	tracker := delivery.NewTracker(delivery.NewMemoryStorage())
	ctx := context.Background()

	attempt, err := tracker.Begin(ctx, newNotification(), "student-1", notification.ChannelSMS)
	require.NoError(t, err)

	_, retry, err := tracker.Fail(ctx, attempt.ID, "gateway timeout")
	require.NoError(t, err)
	assert.True(t, retry)

	failed, retry, err := tracker.Fail(ctx, attempt.ID, "gateway timeout")
	require.NoError(t, err)
	assert.True(t, retry)
	assert.Equal(t, 2, failed.AttemptCount)
	assert.Equal(t, delivery.StatusPending, failed.Status)

	sent, err := tracker.Succeed(ctx, attempt.ID, "sms-99")
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusSent, sent.Status)
	assert.Equal(t, 3, sent.AttemptCount)
	assert.Empty(t, sent.LastError)
}

func TestTracker_BudgetExhaustion(t *testing.T) {
	t.Parallel()

	tracker := delivery.NewTracker(delivery.NewMemoryStorage(), delivery.WithMaxAttempts(2))
	ctx := context.Background()

	attempt, err := tracker.Begin(ctx, newNotification(), "student-1", notification.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, 2, attempt.MaxAttempts)

	_, retry, err := tracker.Fail(ctx, attempt.ID, "550 mailbox unavailable")
	require.NoError(t, err)
	assert.True(t, retry)

	failed, retry, err := tracker.Fail(ctx, attempt.ID, "550 mailbox unavailable")
	require.NoError(t, err)
	assert.False(t, retry)
	assert.Equal(t, delivery.StatusFailed, failed.Status)
	assert.Equal(t, 2, failed.AttemptCount)

	// The count never exceeds the budget.
	_, _, err = tracker.Fail(ctx, attempt.ID, "again")
	require.Error(t, err)

	got, err := tracker.History(ctx, attempt.NotificationID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].AttemptCount)
}

func TestTracker_Bounce(t *testing.T) {
	t.Parallel()

	tracker := delivery.NewTracker(delivery.NewMemoryStorage())
	ctx := context.Background()

	attempt, err := tracker.Begin(ctx, newNotification(), "student-1", notification.ChannelEmail)
	require.NoError(t, err)

	_, err = tracker.Succeed(ctx, attempt.ID, "pm-msg-2")
	require.NoError(t, err)

	bounced, err := tracker.Bounce(ctx, attempt.ID, "hard bounce: unknown address")
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusBounced, bounced.Status)

	// Bounced is terminal.
	_, err = tracker.Deliver(ctx, attempt.ID)
	require.ErrorIs(t, err, delivery.ErrInvalidTransition)
}

func TestTracker_Audit(t *testing.T) {
	t.Parallel()

	tracker := delivery.NewTracker(delivery.NewMemoryStorage())
	ctx := context.Background()
	n := newNotification()

	require.NoError(t, tracker.Audit(ctx, n, "student-1", notification.ChannelSMS,
		delivery.StatusSuppressed, "quiet_hours"))
	require.NoError(t, tracker.Audit(ctx, n, "student-1", notification.ChannelTelegram,
		delivery.StatusSkipped, "no adapter configured"))

	err := tracker.Audit(ctx, n, "student-1", notification.ChannelEmail, delivery.StatusSent, "nope")
	require.ErrorIs(t, err, delivery.ErrInvalidTransition)

	attempts, err := tracker.History(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	byChannel := map[notification.Channel]delivery.Attempt{}
	for _, a := range attempts {
		byChannel[a.Channel] = a
	}
	assert.Equal(t, delivery.StatusSuppressed, byChannel[notification.ChannelSMS].Status)
	assert.Equal(t, "quiet_hours", byChannel[notification.ChannelSMS].Reason)
	assert.Equal(t, delivery.StatusSkipped, byChannel[notification.ChannelTelegram].Status)
}

func TestMemoryStorage_List_Filters(t *testing.T) {
	t.Parallel()

	store := delivery.NewMemoryStorage()
	tracker := delivery.NewTracker(store)
	ctx := context.Background()

	n1 := newNotification()
	n2 := newNotification()

	a1, err := tracker.Begin(ctx, n1, "student-1", notification.ChannelEmail)
	require.NoError(t, err)
	_, err = tracker.Begin(ctx, n1, "student-2", notification.ChannelPush)
	require.NoError(t, err)
	_, err = tracker.Begin(ctx, n2, "student-1", notification.ChannelEmail)
	require.NoError(t, err)

	_, err = tracker.Succeed(ctx, a1.ID, "ref-1")
	require.NoError(t, err)

	byNotification, err := store.List(ctx, delivery.Filter{NotificationID: n1.ID})
	require.NoError(t, err)
	assert.Len(t, byNotification, 2)

	byRecipient, err := store.List(ctx, delivery.Filter{RecipientID: "student-1"})
	require.NoError(t, err)
	assert.Len(t, byRecipient, 2)

	sent, err := store.List(ctx, delivery.Filter{Status: delivery.StatusSent})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, a1.ID, sent[0].ID)
}

func TestTracker_Stats(t *testing.T) {
	t.Parallel()

	tracker := delivery.NewTracker(delivery.NewMemoryStorage())
	ctx := context.Background()

	n := newNotification()

	a1, err := tracker.Begin(ctx, n, "student-1", notification.ChannelEmail)
	require.NoError(t, err)
	_, err = tracker.Succeed(ctx, a1.ID, "ref-1")
	require.NoError(t, err)

	a2, err := tracker.Begin(ctx, n, "student-2", notification.ChannelEmail)
	require.NoError(t, err)
	_, err = tracker.Bounce(ctx, a2.ID, "unknown mailbox")
	require.NoError(t, err)

	require.NoError(t, tracker.Audit(ctx, n, "student-3", notification.ChannelSMS,
		delivery.StatusSuppressed, "category_disabled"))

	stats, err := tracker.Stats(ctx, n.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats[notification.ChannelEmail][delivery.StatusSent])
	assert.Equal(t, 1, stats[notification.ChannelEmail][delivery.StatusBounced])
	assert.Equal(t, 1, stats[notification.ChannelSMS][delivery.StatusSuppressed])
}
