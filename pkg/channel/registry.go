package channel

import (
	"fmt"

	"github.com/campuskit/notify/pkg/notification"
)

// Registry holds the adapter for each configured channel. It is assembled
// once at startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	adapters map[notification.Channel]Adapter
}

// NewRegistry builds a registry from the given adapters. It fails on a
// duplicate channel or an adapter reporting an unknown one, so a
// misconfigured service refuses to start instead of dropping sends later.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[notification.Channel]Adapter, len(adapters))}
	for _, a := range adapters {
		ch := a.Channel()
		if !ch.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedChannel, ch)
		}
		if _, exists := r.adapters[ch]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAdapter, ch)
		}
		r.adapters[ch] = a
	}
	return r, nil
}

// MustNewRegistry builds a registry and panics on error.
func MustNewRegistry(adapters ...Adapter) *Registry {
	r, err := NewRegistry(adapters...)
	if err != nil {
		panic(err)
	}
	return r
}

// Adapter returns the adapter for a channel, ErrUnsupportedChannel if none
// is registered.
func (r *Registry) Adapter(ch notification.Channel) (Adapter, error) {
	a, ok := r.adapters[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChannel, ch)
	}
	return a, nil
}

// Supports reports whether a channel has an adapter.
func (r *Registry) Supports(ch notification.Channel) bool {
	_, ok := r.adapters[ch]
	return ok
}

// Channels lists the channels this registry can deliver on.
func (r *Registry) Channels() []notification.Channel {
	channels := make([]notification.Channel, 0, len(r.adapters))
	for _, ch := range notification.Channels() {
		if _, ok := r.adapters[ch]; ok {
			channels = append(channels, ch)
		}
	}
	return channels
}
