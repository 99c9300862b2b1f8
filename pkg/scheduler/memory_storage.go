package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/notification"
)

// MemoryStorage is an in-memory Storage for tests and local development.
type MemoryStorage struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*Job
}

// NewMemoryStorage creates an empty in-memory job store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{jobs: make(map[uuid.UUID]*Job)}
}

func (s *MemoryStorage) Create(ctx context.Context, job Job) error {
	if job.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidJob)
	}
	if job.NextRun.IsZero() {
		return fmt.Errorf("%w: missing next run", ErrInvalidJob)
	}
	if job.Recurrence == "" {
		job.Recurrence = RecurrenceNone
	}
	if !job.Recurrence.Valid() {
		return fmt.Errorf("%w: unknown recurrence %q", ErrInvalidJob, job.Recurrence)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return ErrAlreadyExists
	}

	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = job.CreatedAt
	job.Status = StatusScheduled

	s.jobs[job.ID] = &job
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneJob(*job)
	return &cp, nil
}

func (s *MemoryStorage) ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*Job
	for _, job := range s.jobs {
		if job.Status == StatusScheduled && !job.NextRun.After(now) {
			due = append(due, job)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextRun.Before(due[j].NextRun) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	claimed := make([]Job, 0, len(due))
	for _, job := range due {
		job.Status = StatusProcessing
		job.UpdatedAt = time.Now()
		claimed = append(claimed, cloneJob(*job))
	}
	return claimed, nil
}

func (s *MemoryStorage) Reschedule(ctx context.Context, id uuid.UUID, nextRun time.Time, lastError string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if job.Status != StatusProcessing {
		return nil, ErrNotClaimed
	}

	job.Status = StatusScheduled
	job.NextRun = nextRun
	job.RunCount++
	job.LastError = lastError
	job.UpdatedAt = time.Now()

	cp := cloneJob(*job)
	return &cp, nil
}

func (s *MemoryStorage) Complete(ctx context.Context, id uuid.UUID, status Status, lastError string) (*Job, error) {
	if status != StatusSent && status != StatusFailed {
		return nil, fmt.Errorf("%w: cannot complete as %q", ErrInvalidJob, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if job.Status != StatusProcessing {
		return nil, ErrNotClaimed
	}

	job.Status = status
	job.RunCount++
	job.LastError = lastError
	job.UpdatedAt = time.Now()

	cp := cloneJob(*job)
	return &cp, nil
}

func (s *MemoryStorage) Cancel(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.Status != StatusScheduled {
		return ErrNotCancellable
	}

	job.Status = StatusCancelled
	job.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) List(ctx context.Context, status Status, limit, offset int) ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Job
	for _, job := range s.jobs {
		if status != "" && job.Status != status {
			continue
		}
		matched = append(matched, cloneJob(*job))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].NextRun.Before(matched[j].NextRun) })

	start := offset
	if start > len(matched) {
		return []Job{}, nil
	}
	end := start + limit
	if limit == 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func cloneJob(j Job) Job {
	cp := j
	if j.Recipients != nil {
		cp.Recipients = append([]notification.Recipient(nil), j.Recipients...)
	}
	return cp
}
