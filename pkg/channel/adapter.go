package channel

import (
	"context"

	"github.com/campuskit/notify/pkg/notification"
)

// Result is what a successful send returns. ProviderRef is the provider's
// own identifier for the message (Postmark MessageID, FCM message name,
// Telegram message id) so a delivery can be traced end to end.
type Result struct {
	ProviderRef string
}

// Adapter sends rendered content to one recipient over one medium.
//
// Implementations must be safe for concurrent use, honor ctx cancellation,
// and classify failures: return a *TransportError for conditions a retry
// may fix and a *PermanentError for ones it never will.
type Adapter interface {
	// Channel reports which medium this adapter serves.
	Channel() notification.Channel

	// Send delivers content to the recipient. It must not be called for a
	// recipient lacking the channel's contact field.
	Send(ctx context.Context, rec notification.Recipient, content notification.Content) (Result, error)
}
