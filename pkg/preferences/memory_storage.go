package preferences

import (
	"context"
	"sync"
	"time"

	"github.com/campuskit/notify/pkg/notification"
)

// MemoryStorage is an in-memory Storage for tests and local development.
type MemoryStorage struct {
	mu    sync.RWMutex
	prefs map[string]*Preference
}

// NewMemoryStorage creates an empty in-memory preference store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{prefs: make(map[string]*Preference)}
}

func (m *MemoryStorage) Get(ctx context.Context, userID string) (*Preference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pref, ok := m.prefs[userID]
	if !ok {
		return nil, ErrNotFound
	}

	cp := clonePreference(*pref)
	return &cp, nil
}

func (m *MemoryStorage) GetOrCreate(ctx context.Context, userID string) (*Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pref, ok := m.prefs[userID]; ok {
		cp := clonePreference(*pref)
		return &cp, nil
	}

	pref := Default(userID)
	m.prefs[userID] = &pref

	cp := clonePreference(pref)
	return &cp, nil
}

func (m *MemoryStorage) Set(ctx context.Context, pref Preference) error {
	if pref.UserID == "" {
		return ErrMissingUserID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := clonePreference(pref)
	cp.UpdatedAt = time.Now()
	if existing, ok := m.prefs[pref.UserID]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = cp.UpdatedAt
	}
	m.prefs[pref.UserID] = &cp
	return nil
}

func clonePreference(p Preference) Preference {
	cp := p
	cp.Channels = make(map[notification.Category][]notification.Channel, len(p.Channels))
	for cat, channels := range p.Channels {
		cp.Channels[cat] = append([]notification.Channel(nil), channels...)
	}
	return cp
}
