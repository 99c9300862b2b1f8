package delivery

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory Storage for tests and local development.
type MemoryStorage struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]*Attempt
}

// NewMemoryStorage creates an empty in-memory attempt store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{attempts: make(map[uuid.UUID]*Attempt)}
}

func (s *MemoryStorage) Create(ctx context.Context, attempt Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.attempts[attempt.ID]; exists {
		return ErrAlreadyExists
	}

	now := time.Now()
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = now
	}
	attempt.UpdatedAt = attempt.CreatedAt
	if attempt.Status == "" {
		attempt.Status = StatusPending
	}
	if attempt.MaxAttempts <= 0 {
		attempt.MaxAttempts = DefaultMaxAttempts
	}

	s.attempts[attempt.ID] = &attempt
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *attempt
	return &cp, nil
}

func (s *MemoryStorage) MarkSent(ctx context.Context, id uuid.UUID, providerRef string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if attempt.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s -> sent", ErrInvalidTransition, attempt.Status)
	}

	now := time.Now()
	attempt.Status = StatusSent
	attempt.AttemptCount++
	attempt.ProviderRef = providerRef
	attempt.LastError = ""
	attempt.SentAt = &now
	attempt.UpdatedAt = now

	cp := *attempt
	return &cp, nil
}

func (s *MemoryStorage) MarkDelivered(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if attempt.Status != StatusSent {
		return nil, fmt.Errorf("%w: %s -> delivered", ErrInvalidTransition, attempt.Status)
	}

	now := time.Now()
	attempt.Status = StatusDelivered
	attempt.DeliveredAt = &now
	attempt.UpdatedAt = now

	cp := *attempt
	return &cp, nil
}

func (s *MemoryStorage) MarkBounced(ctx context.Context, id uuid.UUID, reason string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if attempt.Status != StatusPending && attempt.Status != StatusSent {
		return nil, fmt.Errorf("%w: %s -> bounced", ErrInvalidTransition, attempt.Status)
	}

	now := time.Now()
	attempt.Status = StatusBounced
	attempt.LastError = reason
	attempt.UpdatedAt = now

	cp := *attempt
	return &cp, nil
}

func (s *MemoryStorage) RecordFailure(ctx context.Context, id uuid.UUID, cause string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if attempt.Status != StatusPending {
		return nil, fmt.Errorf("%w: %s -> failed", ErrInvalidTransition, attempt.Status)
	}
	if attempt.Exhausted() {
		return nil, ErrAttemptsExhausted
	}

	attempt.AttemptCount++
	attempt.LastError = cause
	attempt.UpdatedAt = time.Now()
	if attempt.Exhausted() {
		attempt.Status = StatusFailed
	}

	cp := *attempt
	return &cp, nil
}

func (s *MemoryStorage) List(ctx context.Context, f Filter) ([]Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Attempt
	for _, attempt := range s.attempts {
		if f.NotificationID != uuid.Nil && attempt.NotificationID != f.NotificationID {
			continue
		}
		if f.RecipientID != "" && attempt.RecipientID != f.RecipientID {
			continue
		}
		if f.Channel != "" && attempt.Channel != f.Channel {
			continue
		}
		if f.Status != "" && attempt.Status != f.Status {
			continue
		}
		matched = append(matched, *attempt)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	start := f.Offset
	if start > len(matched) {
		return []Attempt{}, nil
	}
	end := start + f.Limit
	if f.Limit == 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}
