package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/notify/pkg/notification"
	"github.com/campuskit/notify/pkg/pg"
)

const attemptColumns = `id, notification_id, recipient_id, channel, status,
	attempt_count, max_attempts, provider_ref, last_error, reason,
	sent_at, delivered_at, created_at, updated_at`

// PGStorage persists attempts in the `delivery_attempts` table. Status
// transitions are guarded in SQL so concurrent workers cannot double-apply
// them.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Postgres-backed attempt store.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Create(ctx context.Context, attempt Attempt) error {
	createdAt := attempt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	status := attempt.Status
	if status == "" {
		status = StatusPending
	}
	maxAttempts := attempt.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO delivery_attempts
			(id, notification_id, recipient_id, channel, status,
			 attempt_count, max_attempts, provider_ref, last_error, reason,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		attempt.ID, attempt.NotificationID, attempt.RecipientID, attempt.Channel,
		status, attempt.AttemptCount, maxAttempts, attempt.ProviderRef,
		attempt.LastError, attempt.Reason, createdAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert delivery attempt: %w", err)
	}
	return nil
}

func (s *PGStorage) Get(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM delivery_attempts WHERE id = $1`, id)

	attempt, err := scanAttempt(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select delivery attempt: %w", err)
	}
	return attempt, nil
}

func (s *PGStorage) MarkSent(ctx context.Context, id uuid.UUID, providerRef string) (*Attempt, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE delivery_attempts
		SET status = 'sent', attempt_count = attempt_count + 1,
		    provider_ref = $2, last_error = '', sent_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+attemptColumns, id, providerRef)

	attempt, err := scanAttempt(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, s.transitionError(ctx, id, StatusSent)
		}
		return nil, fmt.Errorf("mark attempt sent: %w", err)
	}
	return attempt, nil
}

func (s *PGStorage) MarkDelivered(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE delivery_attempts
		SET status = 'delivered', delivered_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'sent'
		RETURNING `+attemptColumns, id)

	attempt, err := scanAttempt(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, s.transitionError(ctx, id, StatusDelivered)
		}
		return nil, fmt.Errorf("mark attempt delivered: %w", err)
	}
	return attempt, nil
}

func (s *PGStorage) MarkBounced(ctx context.Context, id uuid.UUID, reason string) (*Attempt, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE delivery_attempts
		SET status = 'bounced', last_error = $2, updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'sent')
		RETURNING `+attemptColumns, id, reason)

	attempt, err := scanAttempt(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, s.transitionError(ctx, id, StatusBounced)
		}
		return nil, fmt.Errorf("mark attempt bounced: %w", err)
	}
	return attempt, nil
}

func (s *PGStorage) RecordFailure(ctx context.Context, id uuid.UUID, cause string) (*Attempt, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE delivery_attempts
		SET attempt_count = attempt_count + 1,
		    last_error = $2,
		    status = CASE WHEN attempt_count + 1 >= max_attempts
		             THEN 'failed' ELSE 'pending' END,
		    updated_at = now()
		WHERE id = $1 AND status = 'pending' AND attempt_count < max_attempts
		RETURNING `+attemptColumns, id, cause)

	attempt, err := scanAttempt(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, s.failureError(ctx, id)
		}
		return nil, fmt.Errorf("record attempt failure: %w", err)
	}
	return attempt, nil
}

func (s *PGStorage) List(ctx context.Context, f Filter) ([]Attempt, error) {
	query := &strings.Builder{}
	query.WriteString(`SELECT ` + attemptColumns + ` FROM delivery_attempts WHERE true`)
	var args []any

	if f.NotificationID != uuid.Nil {
		args = append(args, f.NotificationID)
		fmt.Fprintf(query, " AND notification_id = $%d", len(args))
	}
	if f.RecipientID != "" {
		args = append(args, f.RecipientID)
		fmt.Fprintf(query, " AND recipient_id = $%d", len(args))
	}
	if f.Channel != "" {
		args = append(args, f.Channel)
		fmt.Fprintf(query, " AND channel = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		fmt.Fprintf(query, " AND status = $%d", len(args))
	}

	query.WriteString(" ORDER BY created_at DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(query, " LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		fmt.Fprintf(query, " OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list delivery attempts: %w", err)
	}
	defer rows.Close()

	attempts := []Attempt{}
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery attempt: %w", err)
		}
		attempts = append(attempts, *attempt)
	}
	return attempts, rows.Err()
}

// transitionError distinguishes a missing row from a guard rejection after
// a conditional update matched nothing.
func (s *PGStorage) transitionError(ctx context.Context, id uuid.UUID, to Status) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
}

func (s *PGStorage) failureError(ctx context.Context, id uuid.UUID) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == StatusPending && current.Exhausted() {
		return ErrAttemptsExhausted
	}
	return fmt.Errorf("%w: %s -> failed", ErrInvalidTransition, current.Status)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*Attempt, error) {
	var (
		attempt Attempt
		channel string
		status  string
	)
	err := row.Scan(&attempt.ID, &attempt.NotificationID, &attempt.RecipientID,
		&channel, &status, &attempt.AttemptCount, &attempt.MaxAttempts,
		&attempt.ProviderRef, &attempt.LastError, &attempt.Reason,
		&attempt.SentAt, &attempt.DeliveredAt, &attempt.CreatedAt, &attempt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	attempt.Channel = notification.Channel(channel)
	attempt.Status = Status(status)
	return &attempt, nil
}
