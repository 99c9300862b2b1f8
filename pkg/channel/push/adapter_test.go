package push_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/channel/push"
	"github.com/campuskit/notify/pkg/notification"
)

func newAdapter(t *testing.T, srv *httptest.Server) *push.Adapter {
	t.Helper()

	adapter, err := push.NewAdapter(push.Config{
		APIURL:    srv.URL,
		ServerKey: "server-key",
	}, push.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return adapter
}

func TestAdapter_Send(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=server-key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "fcm-token-1", payload["to"])

		_, _ = w.Write([]byte(`{"multicast_id":42,"success":1,"failure":0,"results":[{"message_id":"0:msg-1"}]}`))
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv)
	rec := notification.Recipient{ID: "student-1", PushToken: "fcm-token-1"}

	res, err := adapter.Send(context.Background(), rec, notification.Content{
		Title: "Security Alert",
		Body:  "New sign-in from an unrecognized device.",
	})
	require.NoError(t, err)
	assert.Equal(t, "0:msg-1", res.ProviderRef)
}

func TestAdapter_Send_DeviceRejection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"multicast_id":42,"success":0,"failure":1,"results":[{"error":"NotRegistered"}]}`))
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv)
	rec := notification.Recipient{ID: "student-1", PushToken: "stale-token"}

	_, err := adapter.Send(context.Background(), rec, notification.Content{Title: "x", Body: "y"})
	require.Error(t, err)
	assert.False(t, channel.IsRetryable(err))
	assert.Contains(t, err.Error(), "NotRegistered")
}

func TestAdapter_Send_GatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv)
	rec := notification.Recipient{ID: "student-1", PushToken: "fcm-token-1"}

	_, err := adapter.Send(context.Background(), rec, notification.Content{Title: "x", Body: "y"})
	require.Error(t, err)
	assert.True(t, channel.IsRetryable(err))
}

func TestAdapter_Send_NoToken(t *testing.T) {
	t.Parallel()

	adapter, err := push.NewAdapter(push.Config{APIURL: "https://fcm.example.com/send", ServerKey: "k"})
	require.NoError(t, err)

	_, err = adapter.Send(context.Background(), notification.Recipient{ID: "student-1"}, notification.Content{})
	require.Error(t, err)
	assert.False(t, channel.IsRetryable(err))
}
