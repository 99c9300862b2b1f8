package email

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mrz1836/postmark"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/notification"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Adapter delivers the email channel through Postmark's transactional API.
type Adapter struct {
	client *postmark.Client
	config Config
}

// NewAdapter creates a Postmark-backed email adapter.
// All tokens are required for runtime operation; development environments
// should use NewDevAdapter instead.
func NewAdapter(cfg Config) (*Adapter, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", channel.ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", channel.ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", channel.ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", channel.ErrInvalidConfig)
	}

	return &Adapter{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// MustNewAdapter creates a Postmark adapter that panics on invalid config.
func MustNewAdapter(cfg Config) *Adapter {
	a, err := NewAdapter(cfg)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Adapter) Channel() notification.Channel {
	return notification.ChannelEmail
}

// Send delivers one email. Tracking is enabled for opens and HTML link
// clicks only. A Postmark application error code means the message was
// rejected and a retry will not help; anything else is transport.
func (a *Adapter) Send(ctx context.Context, rec notification.Recipient, content notification.Content) (channel.Result, error) {
	if rec.Email == "" {
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelEmail,
			Err:     fmt.Errorf("recipient %s has no email address", rec.ID),
		}
	}

	resp, err := a.client.SendEmail(ctx, postmark.Email{
		From:       a.config.SenderEmail,
		ReplyTo:    a.config.SupportEmail,
		To:         rec.Email,
		Subject:    content.Title,
		TextBody:   content.Body,
		HTMLBody:   content.HTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelEmail, Err: err}
	}
	if resp.ErrorCode > 0 {
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelEmail,
			Err:     fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		}
	}
	return channel.Result{ProviderRef: resp.MessageID}, nil
}
