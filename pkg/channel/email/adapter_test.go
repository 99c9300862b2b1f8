package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/channel/email"
	"github.com/campuskit/notify/pkg/notification"
)

func TestNewAdapter_Validation(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "no-reply@campus.example.edu",
		SupportEmail:         "support@campus.example.edu",
	}

	tests := []struct {
		name   string
		mutate func(*email.Config)
	}{
		{name: "missing server token", mutate: func(c *email.Config) { c.PostmarkServerToken = "" }},
		{name: "missing account token", mutate: func(c *email.Config) { c.PostmarkAccountToken = "" }},
		{name: "invalid sender", mutate: func(c *email.Config) { c.SenderEmail = "not-an-email" }},
		{name: "invalid support", mutate: func(c *email.Config) { c.SupportEmail = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)

			_, err := email.NewAdapter(cfg)
			require.ErrorIs(t, err, channel.ErrInvalidConfig)
		})
	}

	a, err := email.NewAdapter(valid)
	require.NoError(t, err)
	assert.Equal(t, notification.ChannelEmail, a.Channel())
}

func TestDevAdapter_Send(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	adapter := email.NewDevAdapter(dir)

	rec := notification.Recipient{ID: "student-1", Email: "layla@example.edu"}
	content := notification.Content{
		Title: "Payment Due",
		Body:  "Your tuition payment of 1200 EGP is due on 2026-09-15.",
		HTML:  "<p>Your tuition payment of 1200 EGP is due on 2026-09-15.</p>",
	}

	res, err := adapter.Send(context.Background(), rec, content)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ProviderRef)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var htmlFile, jsonFile string
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlFile = filepath.Join(dir, e.Name())
		case ".json":
			jsonFile = filepath.Join(dir, e.Name())
		}
	}
	require.NotEmpty(t, htmlFile)
	require.NotEmpty(t, jsonFile)

	html, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	assert.Contains(t, string(html), "1200 EGP")

	meta, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	assert.Contains(t, string(meta), "layla@example.edu")
	assert.True(t, strings.Contains(filepath.Base(htmlFile), "payment_due"))
}

func TestDevAdapter_Send_NoEmail(t *testing.T) {
	t.Parallel()

	adapter := email.NewDevAdapter(t.TempDir())

	_, err := adapter.Send(context.Background(), notification.Recipient{ID: "student-1"}, notification.Content{Title: "x"})
	require.Error(t, err)
	assert.False(t, channel.IsRetryable(err))
}
