package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/channel/telegram"
	"github.com/campuskit/notify/pkg/notification"
)

func newAdapter(t *testing.T, srv *httptest.Server) *telegram.Adapter {
	t.Helper()

	adapter, err := telegram.NewAdapter(telegram.Config{
		BotToken: "bot-token",
		APIURL:   srv.URL,
	}, telegram.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return adapter
}

func TestAdapter_Send(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botbot-token/sendMessage", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "12345", payload["chat_id"])
		assert.Equal(t, "Markdown", payload["parse_mode"])
		assert.Contains(t, payload["text"], "*Emergency Alert*")

		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":777}}`))
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv)
	rec := notification.Recipient{ID: "student-1", TelegramChatID: "12345"}

	res, err := adapter.Send(context.Background(), rec, notification.Content{
		Title: "Emergency Alert",
		Body:  "Campus closed today due to weather.",
	})
	require.NoError(t, err)
	assert.Equal(t, "777", res.ProviderRef)
}

func TestAdapter_Send_BotError(t *testing.T) {
	t.Parallel()

	t.Run("bad chat id is permanent", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
		}))
		defer srv.Close()

		adapter := newAdapter(t, srv)
		rec := notification.Recipient{ID: "student-1", TelegramChatID: "nope"}

		_, err := adapter.Send(context.Background(), rec, notification.Content{Title: "x", Body: "y"})
		require.Error(t, err)
		assert.False(t, channel.IsRetryable(err))
	})

	t.Run("rate limit is retryable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"ok":false,"description":"Too Many Requests: retry after 5"}`))
		}))
		defer srv.Close()

		adapter := newAdapter(t, srv)
		rec := notification.Recipient{ID: "student-1", TelegramChatID: "12345"}

		_, err := adapter.Send(context.Background(), rec, notification.Content{Title: "x", Body: "y"})
		require.Error(t, err)
		assert.True(t, channel.IsRetryable(err))
	})
}

func TestAdapter_Send_NoChatID(t *testing.T) {
	t.Parallel()

	adapter, err := telegram.NewAdapter(telegram.Config{BotToken: "t", APIURL: "https://api.telegram.org"})
	require.NoError(t, err)

	_, err = adapter.Send(context.Background(), notification.Recipient{ID: "student-1"}, notification.Content{})
	require.Error(t, err)
	assert.False(t, channel.IsRetryable(err))
}
