package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage persists scheduled jobs.
type Storage interface {
	// Create stores a new job in the scheduled state.
	Create(ctx context.Context, job Job) error

	// Get retrieves one job, ErrNotFound if absent.
	Get(ctx context.Context, id uuid.UUID) (*Job, error)

	// ClaimDue atomically moves up to limit due jobs from scheduled to
	// processing and returns them. Two concurrent pollers never receive
	// the same job.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error)

	// Reschedule returns a processing job to scheduled with a new run
	// time, recording the outcome of the run that just finished.
	Reschedule(ctx context.Context, id uuid.UUID, nextRun time.Time, lastError string) (*Job, error)

	// Complete finishes a one-shot processing job as sent or failed.
	Complete(ctx context.Context, id uuid.UUID, status Status, lastError string) (*Job, error)

	// Cancel stops a job that has not fired. Processing, sent, and failed
	// jobs return ErrNotCancellable.
	Cancel(ctx context.Context, id uuid.UUID) error

	// List returns jobs in the given status, soonest next run first. An
	// empty status matches all jobs.
	List(ctx context.Context, status Status, limit, offset int) ([]Job, error)
}
