package inapp_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/channel/inapp"
	"github.com/campuskit/notify/pkg/inbox"
	"github.com/campuskit/notify/pkg/notification"
)

func TestAdapter_Send(t *testing.T) {
	t.Parallel()

	store := inbox.NewMemoryStorage()
	adapter := inapp.NewAdapter(store)
	require.Equal(t, notification.ChannelInApp, adapter.Channel())

	expires := time.Now().Add(24 * time.Hour)
	n := &notification.Notification{
		ID:        uuid.New(),
		Title:     "Course Enrollment",
		Body:      "You are enrolled in PHYS202.",
		Category:  notification.CategoryAcademic,
		Priority:  notification.PriorityNormal,
		ExpiresAt: &expires,
		Metadata:  map[string]any{"course_code": "PHYS202"},
	}

	res, err := adapter.Send(context.Background(), notification.Recipient{ID: "student-1"}, n.Content())
	require.NoError(t, err)

	msgID, err := uuid.Parse(res.ProviderRef)
	require.NoError(t, err)

	msg, err := store.Get(context.Background(), "student-1", msgID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, msg.NotificationID)
	assert.Equal(t, notification.CategoryAcademic, msg.Category)
	assert.Equal(t, "You are enrolled in PHYS202.", msg.Body)
	assert.Equal(t, "PHYS202", msg.Metadata["course_code"])
	require.NotNil(t, msg.ExpiresAt)
	assert.False(t, msg.Read)
}

func TestAdapter_Send_NoUserID(t *testing.T) {
	t.Parallel()

	adapter := inapp.NewAdapter(inbox.NewMemoryStorage())

	_, err := adapter.Send(context.Background(), notification.Recipient{}, notification.Content{Title: "x"})
	require.Error(t, err)
	assert.False(t, channel.IsRetryable(err))
}
