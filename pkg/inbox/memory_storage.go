package inbox

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/notification"
)

// MemoryStorage is an in-memory Storage for tests and local development.
type MemoryStorage struct {
	mu       sync.RWMutex
	messages map[string][]Message // userID -> messages
}

// NewMemoryStorage creates an empty in-memory inbox store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{messages: make(map[string][]Message)}
}

func (s *MemoryStorage) Create(ctx context.Context, msg Message) error {
	if msg.UserID == "" {
		return ErrMissingUserID
	}
	if msg.ID == uuid.Nil {
		return ErrMissingID
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.UserID] = append(s.messages[msg.UserID], msg)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, userID string, id uuid.UUID) (*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.messages[userID] {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	categories := make(map[notification.Category]bool, len(opts.Categories))
	for _, c := range opts.Categories {
		categories[c] = true
	}

	var filtered []Message
	for _, m := range s.messages[userID] {
		if m.IsExpired(now) {
			continue
		}
		if opts.OnlyUnread && m.Read {
			continue
		}
		if len(categories) > 0 && !categories[m.Category] {
			continue
		}
		if opts.Since != nil && m.CreatedAt.Before(*opts.Since) {
			continue
		}
		filtered = append(filtered, m)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := opts.Offset
	if start > len(filtered) {
		return []Message{}, nil
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, userID string, ids ...uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	now := time.Now()
	messages := s.messages[userID]
	for i := range messages {
		if idSet[messages[i].ID] {
			messages[i].MarkRead(now)
		}
	}
	return nil
}

func (s *MemoryStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, m := range s.messages[userID] {
		if !m.Read && !m.IsExpired(now) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, userID string, ids ...uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	var kept []Message
	for _, m := range s.messages[userID] {
		if !idSet[m.ID] {
			kept = append(kept, m)
		}
	}
	s.messages[userID] = kept
	return nil
}
