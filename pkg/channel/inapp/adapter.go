package inapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/inbox"
	"github.com/campuskit/notify/pkg/notification"
)

// Adapter delivers the in_app channel by writing to the recipient's inbox.
// Delivery is local, so a successful Send means the message is visible the
// next time the user opens the app.
type Adapter struct {
	store inbox.Storage
}

// NewAdapter creates an in-app adapter over the given inbox store.
func NewAdapter(store inbox.Storage) *Adapter {
	return &Adapter{store: store}
}

func (a *Adapter) Channel() notification.Channel {
	return notification.ChannelInApp
}

func (a *Adapter) Send(ctx context.Context, rec notification.Recipient, content notification.Content) (channel.Result, error) {
	if rec.ID == "" {
		return channel.Result{}, &channel.PermanentError{
			Channel: notification.ChannelInApp,
			Err:     fmt.Errorf("recipient has no user id"),
		}
	}

	msg := inbox.Message{
		ID:             uuid.New(),
		UserID:         rec.ID,
		NotificationID: content.NotificationID,
		Category:       content.Category,
		Priority:       content.Priority,
		Title:          content.Title,
		Body:           content.Body,
		Metadata:       content.Metadata,
		ExpiresAt:      content.ExpiresAt,
	}
	if err := a.store.Create(ctx, msg); err != nil {
		return channel.Result{}, &channel.TransportError{Channel: notification.ChannelInApp, Err: err}
	}
	return channel.Result{ProviderRef: msg.ID.String()}, nil
}
