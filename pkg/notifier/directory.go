package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/campuskit/notify/pkg/notification"
)

// RecipientDirectory resolves recipient ids to contact snapshots. The ERP
// backs this with its user store; tests and small deployments can use
// StaticDirectory.
type RecipientDirectory interface {
	// Lookup resolves ids in order. An id the directory does not know
	// fails the whole lookup with ErrUnknownRecipient.
	Lookup(ctx context.Context, ids []string) ([]notification.Recipient, error)
}

// StaticDirectory is a fixed in-memory RecipientDirectory.
type StaticDirectory struct {
	mu         sync.RWMutex
	recipients map[string]notification.Recipient
}

// NewStaticDirectory creates a directory holding the given recipients.
func NewStaticDirectory(recipients ...notification.Recipient) *StaticDirectory {
	d := &StaticDirectory{recipients: make(map[string]notification.Recipient, len(recipients))}
	for _, r := range recipients {
		d.recipients[r.ID] = r
	}
	return d
}

// Add inserts or replaces a recipient.
func (d *StaticDirectory) Add(rec notification.Recipient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recipients[rec.ID] = rec
}

func (d *StaticDirectory) Lookup(ctx context.Context, ids []string) ([]notification.Recipient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]notification.Recipient, 0, len(ids))
	for _, id := range ids {
		rec, ok := d.recipients[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRecipient, id)
		}
		out = append(out, rec)
	}
	return out, nil
}
