package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/notification"
)

// DevAdapter implements the email channel for local development.
// It saves each message as HTML and JSON files to a directory instead of
// sending through a provider, so rendered templates can be eyeballed.
type DevAdapter struct {
	dir string
}

// NewDevAdapter creates a development email adapter that saves messages to
// disk. The directory is created on first send if it does not exist.
func NewDevAdapter(dir string) *DevAdapter {
	return &DevAdapter{dir: dir}
}

func (d *DevAdapter) Channel() notification.Channel {
	return notification.ChannelEmail
}

type devMetadata struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

func (d *DevAdapter) Send(ctx context.Context, rec notification.Recipient, content notification.Content) (channel.Result, error) {
	if rec.Email == "" {
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelEmail,
			Err:     fmt.Errorf("recipient %s has no email address", rec.ID),
		}
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelEmail, Err: err}
	}

	now := time.Now()
	baseFilename := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(content.Title))

	html := content.HTML
	if html == "" {
		html = content.Body
	}
	htmlPath := filepath.Join(d.dir, baseFilename+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelEmail, Err: err}
	}

	meta, err := json.MarshalIndent(devMetadata{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    rec.Email,
		Subject:   content.Title,
		Body:      content.Body,
	}, "", "  ")
	if err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelEmail, Err: err}
	}
	if err := os.WriteFile(filepath.Join(d.dir, baseFilename+".json"), meta, 0644); err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelEmail, Err: err}
	}

	return channel.Result{ProviderRef: baseFilename}, nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts a subject line into a safe filename.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
