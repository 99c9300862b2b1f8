package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/notification"
)

// Adapter delivers the push channel through an FCM-compatible HTTP endpoint.
type Adapter struct {
	client    *http.Client
	apiURL    string
	serverKey string
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

// NewAdapter creates a push adapter.
func NewAdapter(cfg Config, opts ...Option) (*Adapter, error) {
	if cfg.ServerKey == "" {
		return nil, fmt.Errorf("%w: ServerKey is required", channel.ErrInvalidConfig)
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
		apiURL:    cfg.APIURL,
		serverKey: cfg.ServerKey,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Adapter) Channel() notification.Channel {
	return notification.ChannelPush
}

type pushPayload struct {
	To           string         `json:"to"`
	Notification pushBody       `json:"notification"`
	Data         map[string]any `json:"data,omitempty"`
}

type pushBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type pushResponse struct {
	MulticastID int64 `json:"multicast_id"`
	Success     int   `json:"success"`
	Failure     int   `json:"failure"`
	Results     []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// Send posts one push message. A failure result for the device token
// (NotRegistered, InvalidRegistration) is permanent; gateway-level errors
// are transport.
func (a *Adapter) Send(ctx context.Context, rec notification.Recipient, content notification.Content) (channel.Result, error) {
	if rec.PushToken == "" {
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelPush,
			Err:     fmt.Errorf("recipient %s has no device token", rec.ID),
		}
	}

	payload, err := json.Marshal(pushPayload{
		To:           rec.PushToken,
		Notification: pushBody{Title: content.Title, Body: content.Body},
		Data:         content.Metadata,
	})
	if err != nil {
		return channel.Result{}, &channel.PermanentError{Channel: notification.ChannelPush, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(payload))
	if err != nil {
		return channel.Result{}, &channel.PermanentError{Channel: notification.ChannelPush, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+a.serverKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelPush, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelPush,
			Err:     fmt.Errorf("gateway rejected message: %d %s", resp.StatusCode, body),
		}
	default:
		return channel.Result{}, &channel.TransportError{
			Channel: notification.ChannelPush,
			Err:     fmt.Errorf("gateway error: %d %s", resp.StatusCode, body),
		}
	}

	var pr pushResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelPush, Err: err}
	}
	if pr.Failure > 0 {
		reason := "unknown"
		if len(pr.Results) > 0 && pr.Results[0].Error != "" {
			reason = pr.Results[0].Error
		}
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelPush,
			Err:     fmt.Errorf("device rejected message: %s", reason),
		}
	}

	ref := strconv.FormatInt(pr.MulticastID, 10)
	if len(pr.Results) > 0 && pr.Results[0].MessageID != "" {
		ref = pr.Results[0].MessageID
	}
	return channel.Result{ProviderRef: ref}, nil
}
