package inbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/notify/pkg/notification"
	"github.com/campuskit/notify/pkg/pg"
)

// PGStorage persists inbox messages in the `inbox_messages` table.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Postgres-backed inbox store.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Create(ctx context.Context, msg Message) error {
	if msg.UserID == "" {
		return ErrMissingUserID
	}
	if msg.ID == uuid.Nil {
		return ErrMissingID
	}

	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	metadata, err := json.Marshal(msg.Metadata)
	if err != nil {
		return fmt.Errorf("marshal inbox metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO inbox_messages
			(id, user_id, notification_id, category, priority, title, body,
			 metadata, read, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9, $10)`,
		msg.ID, msg.UserID, msg.NotificationID, msg.Category, msg.Priority,
		msg.Title, msg.Body, metadata, createdAt, msg.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert inbox message: %w", err)
	}
	return nil
}

func (s *PGStorage) Get(ctx context.Context, userID string, id uuid.UUID) (*Message, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, notification_id, category, priority, title, body,
		       metadata, read, read_at, created_at, expires_at
		FROM inbox_messages
		WHERE user_id = $1 AND id = $2`, userID, id)

	msg, err := scanMessage(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select inbox message: %w", err)
	}
	return msg, nil
}

func (s *PGStorage) List(ctx context.Context, userID string, opts ListOptions) ([]Message, error) {
	query := &strings.Builder{}
	query.WriteString(`
		SELECT id, user_id, notification_id, category, priority, title, body,
		       metadata, read, read_at, created_at, expires_at
		FROM inbox_messages
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > now())`)
	args := []any{userID}

	if opts.OnlyUnread {
		query.WriteString(" AND read = false")
	}
	if len(opts.Categories) > 0 {
		args = append(args, opts.Categories)
		fmt.Fprintf(query, " AND category = ANY($%d)", len(args))
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		fmt.Fprintf(query, " AND created_at >= $%d", len(args))
	}

	query.WriteString(" ORDER BY created_at DESC")
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(query, " LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		fmt.Fprintf(query, " OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list inbox messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inbox message: %w", err)
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func (s *PGStorage) MarkRead(ctx context.Context, userID string, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE inbox_messages
		SET read = true, read_at = now()
		WHERE user_id = $1 AND id = ANY($2) AND read = false`, userID, ids)
	if err != nil {
		return fmt.Errorf("mark inbox messages read: %w", err)
	}
	return nil
}

func (s *PGStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM inbox_messages
		WHERE user_id = $1 AND read = false
		  AND (expires_at IS NULL OR expires_at > now())`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread inbox messages: %w", err)
	}
	return count, nil
}

func (s *PGStorage) Delete(ctx context.Context, userID string, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM inbox_messages
		WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return fmt.Errorf("delete inbox messages: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*Message, error) {
	var (
		msg      Message
		metadata []byte
		category string
		priority string
	)
	err := row.Scan(&msg.ID, &msg.UserID, &msg.NotificationID, &category, &priority,
		&msg.Title, &msg.Body, &metadata, &msg.Read, &msg.ReadAt,
		&msg.CreatedAt, &msg.ExpiresAt)
	if err != nil {
		return nil, err
	}
	msg.Category = notification.Category(category)
	msg.Priority = notification.Priority(priority)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &msg.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal inbox metadata: %w", err)
		}
	}
	return &msg, nil
}
