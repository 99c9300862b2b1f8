package telegram

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

// Adapter delivers the telegram channel through the Bot API sendMessage
// method. Recipients opt in by linking their chat id to their account.
type Adapter struct {
	client   *http.Client
	botToken string
	apiURL   string
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

// NewAdapter creates a Telegram adapter.
func NewAdapter(cfg Config, opts ...Option) (*Adapter, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: BotToken is required", channel.ErrInvalidConfig)
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
		botToken: cfg.BotToken,
		apiURL:   cfg.APIURL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Adapter) Channel() notification.Channel {
	return notification.ChannelTelegram
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Send posts one message as "*title*\n\nbody" in Markdown. Bot API errors
// with ok=false on a 4xx are permanent (bad chat id, blocked bot); HTTP
// failures and 429s are transport.
func (a *Adapter) Send(ctx context.Context, rec notification.Recipient, content notification.Content) (channel.Result, error) {
	if rec.TelegramChatID == "" {
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelTelegram,
			Err:     fmt.Errorf("recipient %s has no telegram chat id", rec.ID),
		}
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    rec.TelegramChatID,
		Text:      fmt.Sprintf("*%s*\n\n%s", content.Title, content.Body),
		ParseMode: "Markdown",
	})
	if err != nil {
		return channel.Result{}, &channel.PermanentError{Channel: notification.ChannelTelegram, Err: err}
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", a.apiURL, a.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return channel.Result{}, &channel.PermanentError{Channel: notification.ChannelTelegram, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelTelegram, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var mr sendMessageResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return channel.Result{}, &channel.TransportError{
			Channel: notification.ChannelTelegram,
			Err:     fmt.Errorf("unexpected response: %d %s", resp.StatusCode, body),
		}
	}

	if !mr.OK {
		err := fmt.Errorf("bot api error: %d %s", resp.StatusCode, mr.Description)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return channel.Result{}, &channel.PermanentError{Channel: notification.ChannelTelegram, Err: err}
		}
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelTelegram, Err: err}
	}

	return channel.Result{ProviderRef: strconv.FormatInt(mr.Result.MessageID, 10)}, nil
}
