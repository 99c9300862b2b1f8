package notifier

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/notify/pkg/notification"
)

// PGDirectory resolves recipients from the `recipients` table, kept in sync
// with the ERP's user records.
type PGDirectory struct {
	pool *pgxpool.Pool
}

// NewPGDirectory creates a Postgres-backed recipient directory.
func NewPGDirectory(pool *pgxpool.Pool) *PGDirectory {
	return &PGDirectory{pool: pool}
}

func (d *PGDirectory) Lookup(ctx context.Context, ids []string) ([]notification.Recipient, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, phone, telegram_chat_id, push_token, language
		FROM recipients
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("select recipients: %w", err)
	}
	defer rows.Close()

	found := make(map[string]notification.Recipient, len(ids))
	for rows.Next() {
		var rec notification.Recipient
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Phone,
			&rec.TelegramChatID, &rec.PushToken, &rec.Language); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		found[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipients: %w", err)
	}

	recipients := make([]notification.Recipient, 0, len(ids))
	for _, id := range ids {
		rec, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRecipient, id)
		}
		recipients = append(recipients, rec)
	}
	return recipients, nil
}
