package preferences_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/notification"
	"github.com/campuskit/notify/pkg/preferences"
)

func fixedClock(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
	}
}

func testRecipient() notification.Recipient {
	return notification.Recipient{
		ID:        "student-42",
		Name:      "Layla Hassan",
		Email:     "layla@example.edu",
		Phone:     "+201001234567",
		PushToken: "fcm-token-1",
	}
}

func testNotification(priority notification.Priority, channels ...notification.Channel) *notification.Notification {
	return &notification.Notification{
		ID:       uuid.New(),
		Title:    "Grade Published",
		Body:     "Your grade for MATH101 is available.",
		Category: notification.CategoryAcademic,
		Priority: priority,
		Channels: channels,
	}
}

func TestResolver_Resolve_DefaultPreference(t *testing.T) {
	t.Parallel()

	resolver := preferences.NewResolver(preferences.NewMemoryStorage())
	n := testNotification(notification.PriorityNormal,
		notification.ChannelEmail, notification.ChannelSMS, notification.ChannelInApp)

	res, err := resolver.Resolve(context.Background(), n, testRecipient())
	require.NoError(t, err)

	// SMS is off by default, the rest goes through.
	assert.ElementsMatch(t, []notification.Channel{notification.ChannelEmail, notification.ChannelInApp}, res.Effective)
	assert.Equal(t, preferences.ReasonCategoryDisabled, res.Filtered[notification.ChannelSMS])
	assert.False(t, res.Suppressed())
}

func TestResolver_Resolve_UrgentOnly(t *testing.T) {
	t.Parallel()

	store := preferences.NewMemoryStorage()
	pref := preferences.Default("student-42")
	pref.UrgentOnly = true
	require.NoError(t, store.Set(context.Background(), pref))

	resolver := preferences.NewResolver(store)

	t.Run("normal priority is fully suppressed", func(t *testing.T) {
		n := testNotification(notification.PriorityNormal,
			notification.ChannelEmail, notification.ChannelInApp)

		res, err := resolver.Resolve(context.Background(), n, testRecipient())
		require.NoError(t, err)

		assert.True(t, res.Suppressed())
		assert.Equal(t, preferences.ReasonUrgentOnly, res.Filtered[notification.ChannelEmail])
		assert.Equal(t, preferences.ReasonUrgentOnly, res.Filtered[notification.ChannelInApp])
	})

	t.Run("high priority passes", func(t *testing.T) {
		n := testNotification(notification.PriorityHigh, notification.ChannelEmail)

		res, err := resolver.Resolve(context.Background(), n, testRecipient())
		require.NoError(t, err)

		assert.Equal(t, []notification.Channel{notification.ChannelEmail}, res.Effective)
	})
}

func TestResolver_Resolve_QuietHours(t *testing.T) {
	t.Parallel()

	newStore := func(t *testing.T) preferences.Storage {
		t.Helper()
		store := preferences.NewMemoryStorage()
		pref := preferences.Default("student-42")
		pref.QuietHoursEnabled = true
		pref.QuietStart = preferences.TimeOfDay{Hour: 22}
		pref.QuietEnd = preferences.TimeOfDay{Hour: 8}
		require.NoError(t, store.Set(context.Background(), pref))
		return store
	}

	t.Run("only in-app survives inside the window", func(t *testing.T) {
		t.Parallel()

		resolver := preferences.NewResolver(newStore(t), preferences.WithResolverClock(fixedClock(23, 30)))
		n := testNotification(notification.PriorityNormal,
			notification.ChannelEmail, notification.ChannelPush, notification.ChannelInApp)

		res, err := resolver.Resolve(context.Background(), n, testRecipient())
		require.NoError(t, err)

		assert.Equal(t, []notification.Channel{notification.ChannelInApp}, res.Effective)
		assert.Equal(t, preferences.ReasonQuietHours, res.Filtered[notification.ChannelEmail])
		assert.Equal(t, preferences.ReasonQuietHours, res.Filtered[notification.ChannelPush])
	})

	t.Run("window spans midnight on the morning side too", func(t *testing.T) {
		t.Parallel()

		resolver := preferences.NewResolver(newStore(t), preferences.WithResolverClock(fixedClock(7, 0)))
		n := testNotification(notification.PriorityNormal, notification.ChannelEmail)

		res, err := resolver.Resolve(context.Background(), n, testRecipient())
		require.NoError(t, err)

		assert.True(t, res.Suppressed())
		assert.Equal(t, preferences.ReasonQuietHours, res.Filtered[notification.ChannelEmail])
	})

	t.Run("outside the window nothing is held back", func(t *testing.T) {
		t.Parallel()

		resolver := preferences.NewResolver(newStore(t), preferences.WithResolverClock(fixedClock(12, 0)))
		n := testNotification(notification.PriorityNormal, notification.ChannelEmail)

		res, err := resolver.Resolve(context.Background(), n, testRecipient())
		require.NoError(t, err)

		assert.Equal(t, []notification.Channel{notification.ChannelEmail}, res.Effective)
	})

	t.Run("critical priority bypasses the window", func(t *testing.T) {
		t.Parallel()

		resolver := preferences.NewResolver(newStore(t), preferences.WithResolverClock(fixedClock(23, 30)))
		n := testNotification(notification.PriorityCritical,
			notification.ChannelEmail, notification.ChannelPush)

		res, err := resolver.Resolve(context.Background(), n, testRecipient())
		require.NoError(t, err)

		assert.ElementsMatch(t, []notification.Channel{notification.ChannelEmail, notification.ChannelPush}, res.Effective)
		assert.Empty(t, res.Filtered)
	})
}

func TestResolver_Resolve_MissingContact(t *testing.T) {
	t.Parallel()

	resolver := preferences.NewResolver(preferences.NewMemoryStorage())

	rec := testRecipient()
	rec.Email = ""
	n := testNotification(notification.PriorityNormal,
		notification.ChannelEmail, notification.ChannelPush)

	res, err := resolver.Resolve(context.Background(), n, rec)
	require.NoError(t, err)

	assert.Equal(t, []notification.Channel{notification.ChannelPush}, res.Effective)
	assert.Equal(t, preferences.ReasonMissingContact, res.Filtered[notification.ChannelEmail])
}

func TestResolver_Resolve_SubsetOfRequested(t *testing.T) {
	t.Parallel()

	store := preferences.NewMemoryStorage()
	pref := preferences.Default("student-42")
	pref.Channels[notification.CategoryAcademic] = append(
		pref.Channels[notification.CategoryAcademic], notification.ChannelSMS, notification.ChannelTelegram)
	require.NoError(t, store.Set(context.Background(), pref))

	resolver := preferences.NewResolver(store)

	// The user allows more channels than this notification requests; the
	// resolution must never add any.
	n := testNotification(notification.PriorityNormal, notification.ChannelEmail)

	res, err := resolver.Resolve(context.Background(), n, testRecipient())
	require.NoError(t, err)

	requested := map[notification.Channel]bool{notification.ChannelEmail: true}
	for _, ch := range res.Effective {
		assert.True(t, requested[ch], "channel %s was not requested", ch)
	}
	for ch := range res.Filtered {
		assert.True(t, requested[ch], "channel %s was not requested", ch)
	}
}

func TestMemoryStorage_GetOrCreate(t *testing.T) {
	t.Parallel()

	store := preferences.NewMemoryStorage()
	ctx := context.Background()

	_, err := store.Get(ctx, "student-42")
	require.ErrorIs(t, err, preferences.ErrNotFound)

	created, err := store.GetOrCreate(ctx, "student-42")
	require.NoError(t, err)
	assert.Equal(t, "student-42", created.UserID)

	again, err := store.GetOrCreate(ctx, "student-42")
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, again.CreatedAt)
}

func TestMemoryStorage_Set(t *testing.T) {
	t.Parallel()

	store := preferences.NewMemoryStorage()
	ctx := context.Background()

	err := store.Set(ctx, preferences.Preference{})
	require.ErrorIs(t, err, preferences.ErrMissingUserID)

	pref := preferences.Default("student-42")
	pref.UrgentOnly = true
	require.NoError(t, store.Set(ctx, pref))

	got, err := store.Get(ctx, "student-42")
	require.NoError(t, err)
	assert.True(t, got.UrgentOnly)

	// Mutating the returned copy must not leak back into the store.
	got.UrgentOnly = false
	got.Channels[notification.CategoryAcademic] = nil

	fresh, err := store.Get(ctx, "student-42")
	require.NoError(t, err)
	assert.True(t, fresh.UrgentOnly)
	assert.NotEmpty(t, fresh.Channels[notification.CategoryAcademic])
}
