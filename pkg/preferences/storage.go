package preferences

import "context"

// Storage persists user notification preferences.
type Storage interface {
	// Get retrieves a user's preference, ErrNotFound if never created.
	Get(ctx context.Context, userID string) (*Preference, error)

	// GetOrCreate retrieves a user's preference, lazily creating the
	// default on first contact.
	GetOrCreate(ctx context.Context, userID string) (*Preference, error)

	// Set stores a user's preference, overwriting any previous value.
	Set(ctx context.Context, pref Preference) error
}
