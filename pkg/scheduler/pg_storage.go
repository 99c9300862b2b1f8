package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/notify/pkg/pg"
)

const jobColumns = `id, notification, recipients, next_run, recurrence,
	every_seconds, status, run_count, last_error, created_at, updated_at`

// PGStorage persists jobs in the `scheduled_jobs` table. Claiming uses a
// conditional UPDATE with SKIP LOCKED so multiple service instances can
// poll the same table safely.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Postgres-backed job store.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Create(ctx context.Context, job Job) error {
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

	payload, err := json.Marshal(job.Notification)
	if err != nil {
		return fmt.Errorf("marshal job notification: %w", err)
	}
	recipients, err := json.Marshal(job.Recipients)
	if err != nil {
		return fmt.Errorf("marshal job recipients: %w", err)
	}

	createdAt := job.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO scheduled_jobs
			(id, notification, recipients, next_run, recurrence,
			 every_seconds, status, run_count, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled', 0, '', $7, $7)`,
		job.ID, payload, recipients, job.NextRun, job.Recurrence,
		int64(job.Every/time.Second), createdAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert scheduled job: %w", err)
	}
	return nil
}

func (s *PGStorage) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM scheduled_jobs WHERE id = $1`, id)

	job, err := scanJob(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select scheduled job: %w", err)
	}
	return job, nil
}

func (s *PGStorage) ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		UPDATE scheduled_jobs
		SET status = 'processing', updated_at = now()
		WHERE id IN (
			SELECT id FROM scheduled_jobs
			WHERE status = 'scheduled' AND next_run <= $1
			ORDER BY next_run
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+jobColumns, now, limit)
	if err != nil {
		return nil, fmt.Errorf("claim due jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (s *PGStorage) Reschedule(ctx context.Context, id uuid.UUID, nextRun time.Time, lastError string) (*Job, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE scheduled_jobs
		SET status = 'scheduled', next_run = $2, run_count = run_count + 1,
		    last_error = $3, updated_at = now()
		WHERE id = $1 AND status = 'processing'
		RETURNING `+jobColumns, id, nextRun, lastError)

	job, err := scanJob(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, s.claimError(ctx, id)
		}
		return nil, fmt.Errorf("reschedule job: %w", err)
	}
	return job, nil
}

func (s *PGStorage) Complete(ctx context.Context, id uuid.UUID, status Status, lastError string) (*Job, error) {
	if status != StatusSent && status != StatusFailed {
		return nil, fmt.Errorf("%w: cannot complete as %q", ErrInvalidJob, status)
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE scheduled_jobs
		SET status = $2, run_count = run_count + 1, last_error = $3, updated_at = now()
		WHERE id = $1 AND status = 'processing'
		RETURNING `+jobColumns, id, status, lastError)

	job, err := scanJob(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, s.claimError(ctx, id)
		}
		return nil, fmt.Errorf("complete job: %w", err)
	}
	return job, nil
}

func (s *PGStorage) Cancel(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE scheduled_jobs
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'scheduled'`, id)
	if err != nil {
		return fmt.Errorf("cancel job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return ErrNotCancellable
	}
	return nil
}

func (s *PGStorage) List(ctx context.Context, status Status, limit, offset int) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM scheduled_jobs`
	var args []any
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	query += " ORDER BY next_run"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scheduled jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (s *PGStorage) claimError(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return ErrNotClaimed
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job          Job
		payload      []byte
		recipients   []byte
		recurrence   string
		status       string
		everySeconds int64
	)
	err := row.Scan(&job.ID, &payload, &recipients, &job.NextRun, &recurrence,
		&everySeconds, &status, &job.RunCount, &job.LastError,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &job.Notification); err != nil {
		return nil, fmt.Errorf("unmarshal job notification: %w", err)
	}
	if len(recipients) > 0 {
		if err := json.Unmarshal(recipients, &job.Recipients); err != nil {
			return nil, fmt.Errorf("unmarshal job recipients: %w", err)
		}
	}
	job.Recurrence = Recurrence(recurrence)
	job.Status = Status(status)
	job.Every = time.Duration(everySeconds) * time.Second
	return &job, nil
}
