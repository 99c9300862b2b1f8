package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/notify/pkg/pg"
)

// PGStorage persists notifications in the `notifications` table.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Postgres-backed notification store.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Create(ctx context.Context, n Notification) error {
	channels := make([]string, len(n.Channels))
	for i, c := range n.Channels {
		channels[i] = string(c)
	}

	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("marshal notification metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notifications
			(id, template_id, title, body, html, category, priority, channels,
			 scheduled_at, expires_at, metadata, is_sent, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		n.ID, nullableString(n.TemplateID), n.Title, n.Body, n.HTML,
		string(n.Category), string(n.Priority), channels,
		n.ScheduledAt, n.ExpiresAt, metadata, n.IsSent, n.SentAt, n.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PGStorage) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, template_id, title, body, html, category, priority, channels,
		       scheduled_at, expires_at, metadata, is_sent, sent_at, created_at
		FROM notifications
		WHERE id = $1`, id)

	var (
		n          Notification
		templateID *string
		category   string
		priority   string
		channels   []string
		metadata   []byte
	)
	err := row.Scan(&n.ID, &templateID, &n.Title, &n.Body, &n.HTML,
		&category, &priority, &channels,
		&n.ScheduledAt, &n.ExpiresAt, &metadata, &n.IsSent, &n.SentAt, &n.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select notification: %w", err)
	}

	if templateID != nil {
		n.TemplateID = *templateID
	}
	n.Category = Category(category)
	n.Priority = Priority(priority)
	n.Channels = make([]Channel, len(channels))
	for i, c := range channels {
		n.Channels[i] = Channel(c)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal notification metadata: %w", err)
		}
	}
	return &n, nil
}

func (s *PGStorage) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET is_sent = TRUE, sent_at = $2
		WHERE id = $1`, id, sentAt)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
