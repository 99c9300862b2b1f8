package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory Storage for tests and local development.
type MemoryStorage struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]*Notification
}

// NewMemoryStorage creates an empty in-memory notification store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{notifications: make(map[uuid.UUID]*Notification)}
}

func (m *MemoryStorage) Create(ctx context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.notifications[n.ID]; exists {
		return ErrAlreadyExists
	}

	stored := n
	m.notifications[n.ID] = &stored
	return nil
}

func (m *MemoryStorage) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *n
	return &cp, nil
}

func (m *MemoryStorage) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return ErrNotFound
	}

	n.IsSent = true
	at := sentAt
	n.SentAt = &at
	return nil
}
