package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/notification"
)

// Adapter delivers the sms channel through an HTTP gateway.
type Adapter struct {
	client   *http.Client
	apiURL   string
	apiKey   string
	senderID string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient overrides the HTTP client, used in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.client = client
		}
	}
}

// NewAdapter creates an SMS adapter for the configured gateway.
func NewAdapter(cfg Config, opts ...Option) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", channel.ErrInvalidConfig)
	}
	parsed, err := url.Parse(cfg.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: APIURL must be an absolute URL", channel.ErrInvalidConfig)
	}

	a := &Adapter{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		apiURL:   cfg.APIURL,
		apiKey:   cfg.APIKey,
		senderID: cfg.SenderID,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Adapter) Channel() notification.Channel {
	return notification.ChannelSMS
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	From    string `json:"from"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
}

// Send posts one text message to the gateway. Rejections in the 4xx range
// are permanent; everything else, including rate limiting, is transport.
func (a *Adapter) Send(ctx context.Context, rec notification.Recipient, content notification.Content) (channel.Result, error) {
	if rec.Phone == "" {
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelSMS,
			Err:     fmt.Errorf("recipient %s has no phone number", rec.ID),
		}
	}

	payload, err := json.Marshal(sendRequest{
		To:      rec.Phone,
		Message: content.Body,
		From:    a.senderID,
	})
	if err != nil {
		return channel.Result{}, &channel.PermanentError{Channel: notification.ChannelSMS, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(payload))
	if err != nil {
		return channel.Result{}, &channel.PermanentError{Channel: notification.ChannelSMS, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelSMS, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var sr sendResponse
		_ = json.Unmarshal(body, &sr)
		return channel.Result{ProviderRef: sr.MessageID}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelSMS,
			Err:     fmt.Errorf("gateway rejected message: %d %s", resp.StatusCode, body),
		}
	default:
		return channel.Result{}, &channel.TransportError{
			Channel: notification.ChannelSMS,
			Err:     fmt.Errorf("gateway error: %d %s", resp.StatusCode, body),
		}
	}
}
