package template

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage. It is the default catalog backend:
// the built-in templates are code, not data, so most deployments never need
// the Postgres store.
type MemoryStorage struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewMemoryStorage creates an in-memory catalog seeded with the given
// templates. Seeding a duplicate id panics: the catalog is assembled at
// startup and a collision there is a programming error.
func NewMemoryStorage(seed ...Template) *MemoryStorage {
	s := &MemoryStorage{templates: make(map[string]*Template)}
	for _, tpl := range seed {
		if _, exists := s.templates[tpl.ID]; exists {
			panic("template: duplicate template id " + tpl.ID)
		}
		cp := tpl
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = time.Now()
		}
		s.templates[tpl.ID] = &cp
	}
	return s
}

func (s *MemoryStorage) Get(ctx context.Context, id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, ok := s.templates[id]
	if !ok || !tpl.IsActive {
		return nil, ErrNotFound
	}

	cp := *tpl
	return &cp, nil
}

func (s *MemoryStorage) Put(ctx context.Context, tpl Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.templates[tpl.ID]; exists {
		return ErrAlreadyExists
	}

	cp := tpl
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.templates[tpl.ID] = &cp
	return nil
}

func (s *MemoryStorage) List(ctx context.Context) ([]Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		if tpl.IsActive {
			out = append(out, *tpl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
