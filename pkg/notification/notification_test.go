package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/notification"
)

func TestChannelValid(t *testing.T) {
	for _, c := range notification.Channels() {
		assert.True(t, c.Valid(), "channel %s", c)
	}
	assert.False(t, notification.Channel("carrier_pigeon").Valid())
	assert.False(t, notification.Channel("").Valid())
}

func TestPriorityAtLeast(t *testing.T) {
	assert.True(t, notification.PriorityCritical.AtLeast(notification.PriorityHigh))
	assert.True(t, notification.PriorityHigh.AtLeast(notification.PriorityHigh))
	assert.False(t, notification.PriorityNormal.AtLeast(notification.PriorityHigh))
	assert.False(t, notification.PriorityLow.AtLeast(notification.PriorityNormal))
}

func TestRecipientContactFor(t *testing.T) {
	r := notification.Recipient{
		ID:    "u-1",
		Email: "student@example.edu",
		Phone: "+966500000001",
	}

	addr, ok := r.ContactFor(notification.ChannelEmail)
	assert.True(t, ok)
	assert.Equal(t, "student@example.edu", addr)

	_, ok = r.ContactFor(notification.ChannelPush)
	assert.False(t, ok, "no push token registered")

	_, ok = r.ContactFor(notification.ChannelTelegram)
	assert.False(t, ok, "no chat id registered")

	id, ok := r.ContactFor(notification.ChannelInApp)
	assert.True(t, ok, "in-app only needs the user id")
	assert.Equal(t, "u-1", id)
}

func TestNotificationIsExpired(t *testing.T) {
	now := time.Now()

	n := notification.Notification{}
	assert.False(t, n.IsExpired(now), "no expiry set")

	past := now.Add(-time.Hour)
	n.ExpiresAt = &past
	assert.True(t, n.IsExpired(now))

	future := now.Add(time.Hour)
	n.ExpiresAt = &future
	assert.False(t, n.IsExpired(now))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	store := notification.NewMemoryStorage()

	n := notification.Notification{
		ID:        uuid.New(),
		Title:     "Grades published",
		Body:      "Your grade is available",
		Category:  notification.CategoryAcademic,
		Priority:  notification.PriorityNormal,
		Channels:  []notification.Channel{notification.ChannelEmail},
		CreatedAt: time.Now(),
	}

	require.NoError(t, store.Create(ctx, n))
	assert.ErrorIs(t, store.Create(ctx, n), notification.ErrAlreadyExists)

	got, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)
	assert.False(t, got.IsSent)

	sentAt := time.Now()
	require.NoError(t, store.MarkSent(ctx, n.ID, sentAt))

	got, err = store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSent)
	require.NotNil(t, got.SentAt)
	assert.WithinDuration(t, sentAt, *got.SentAt, time.Second)

	_, err = store.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, notification.ErrNotFound)
	assert.ErrorIs(t, store.MarkSent(ctx, uuid.New(), time.Now()), notification.ErrNotFound)
}
