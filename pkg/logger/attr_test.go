package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/logger"
)

func TestError(t *testing.T) {
	t.Run("nil error returns empty attr", func(t *testing.T) {
		attr := logger.Error(nil)
		assert.Equal(t, slog.Attr{}, attr)
	})

	t.Run("non-nil error", func(t *testing.T) {
		err := errors.New("boom")
		attr := logger.Error(err)
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, err, attr.Value.Any())
	})
}

func TestIdentifierAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.RecipientID(nil))
	assert.Equal(t, slog.Attr{}, logger.NotificationID(nil))
	assert.Equal(t, slog.Attr{}, logger.JobID(nil))

	assert.Equal(t, "recipient_id", logger.RecipientID("u-1").Key)
	assert.Equal(t, "notification_id", logger.NotificationID("n-1").Key)
	assert.Equal(t, "job_id", logger.JobID("j-1").Key)
	assert.Equal(t, "template_id", logger.TemplateID("payment_due").Key)
	assert.Equal(t, "channel", logger.Channel("sms").Key)
	assert.Equal(t, "category", logger.Category("financial").Key)
	assert.Equal(t, "attempt_count", logger.AttemptCount(2).Key)
}

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(
			logger.WithFormat(logger.FormatJSON),
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("app", "notifyd")),
		)
		log.Info("hello")

		out := buf.String()
		require.NotEmpty(t, out)
		assert.Contains(t, out, `"app":"notifyd"`)
		assert.Contains(t, out, `"msg":"hello"`)
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithLevel(slog.LevelWarn), logger.WithOutput(&buf))
		log.Info("dropped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.New(logger.WithFormat("xml"))
		})
	})
}
