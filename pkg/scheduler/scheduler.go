package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/logger"
	"github.com/campuskit/notify/pkg/notification"
)

// FireFunc dispatches a due job's notification to its recipients.
type FireFunc func(ctx context.Context, job Job) error

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCheckInterval sets how often the store is polled for due jobs.
func WithCheckInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithBatchSize caps how many jobs one poll claims.
func WithBatchSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithClock overrides the time source, used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// Scheduler polls the job store and fires due jobs. One-shot jobs finish as
// sent or failed; recurring jobs reschedule to their next occurrence either
// way, carrying the last error for observation.
type Scheduler struct {
	store     Storage
	fire      FireFunc
	interval  time.Duration
	batchSize int
	now       func() time.Time
	log       *slog.Logger
}

// New creates a Scheduler. fire is called once per due job.
func New(store Storage, fire FireFunc, opts ...Option) (*Scheduler, error) {
	if fire == nil {
		return nil, ErrFireFuncNil
	}

	s := &Scheduler{
		store:     store,
		fire:      fire,
		interval:  30 * time.Second,
		batchSize: 100,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Schedule stores a job for later delivery. The notification must carry a
// ScheduledAt; recurrence beyond none makes the job repeat from that point.
func (s *Scheduler) Schedule(ctx context.Context, n notification.Notification, recipients []notification.Recipient, recurrence Recurrence, every time.Duration) (*Job, error) {
	if n.ScheduledAt == nil {
		return nil, ErrInvalidJob
	}

	job := Job{
		ID:           uuid.New(),
		Notification: n,
		Recipients:   recipients,
		NextRun:      *n.ScheduledAt,
		Recurrence:   recurrence,
		Every:        every,
	}
	if err := s.store.Create(ctx, job); err != nil {
		return nil, err
	}

	s.log.LogAttrs(ctx, slog.LevelInfo, "notification scheduled",
		logger.JobID(job.ID),
		logger.NotificationID(n.ID),
		slog.Time("next_run", job.NextRun),
		slog.String("recurrence", string(job.Recurrence)),
	)
	return &job, nil
}

// Cancel stops a job that has not fired yet.
func (s *Scheduler) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Cancel(ctx, id); err != nil {
		return err
	}
	s.log.LogAttrs(ctx, slog.LevelInfo, "scheduled job cancelled", logger.JobID(id))
	return nil
}

// Get retrieves one job.
func (s *Scheduler) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.store.Get(ctx, id)
}

// Start runs the poll loop until ctx is cancelled. It checks immediately on
// start, then on every tick.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.checkDue(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.LogAttrs(ctx, slog.LevelInfo, "scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.checkDue(ctx)
		}
	}
}

// RunOnce claims and fires everything currently due. Exposed for tests and
// for deployments that drive polling externally.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.checkDue(ctx)
}

func (s *Scheduler) checkDue(ctx context.Context) error {
	now := s.now()

	jobs, err := s.store.ClaimDue(ctx, now, s.batchSize)
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "failed to claim due jobs", logger.Error(err))
		return err
	}

	for _, job := range jobs {
		s.fireJob(ctx, job, now)
	}
	return nil
}

func (s *Scheduler) fireJob(ctx context.Context, job Job, now time.Time) {
	fireErr := s.fire(ctx, job)

	cause := ""
	if fireErr != nil {
		cause = fireErr.Error()
		s.log.LogAttrs(ctx, slog.LevelError, "scheduled job failed",
			logger.JobID(job.ID),
			logger.NotificationID(job.Notification.ID),
			logger.Error(fireErr),
		)
	}

	if next, ok := job.NextOccurrence(now); ok {
		if _, err := s.store.Reschedule(ctx, job.ID, next, cause); err != nil {
			s.log.LogAttrs(ctx, slog.LevelError, "failed to reschedule job",
				logger.JobID(job.ID), logger.Error(err))
		}
		return
	}

	status := StatusSent
	if fireErr != nil {
		status = StatusFailed
	}
	if _, err := s.store.Complete(ctx, job.ID, status, cause); err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "failed to complete job",
			logger.JobID(job.ID), logger.Error(err))
	}
}
