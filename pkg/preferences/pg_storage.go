package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/notify/pkg/pg"
)

// PGStorage persists preferences in the `user_notification_preferences`
// table, one row per user.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Postgres-backed preference store.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Get(ctx context.Context, userID string) (*Preference, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, channels, urgent_only, quiet_hours_enabled,
		       quiet_start, quiet_end, created_at, updated_at
		FROM user_notification_preferences
		WHERE user_id = $1`, userID)

	var (
		pref       Preference
		channels   []byte
		quietStart string
		quietEnd   string
	)
	err := row.Scan(&pref.UserID, &channels, &pref.UrgentOnly, &pref.QuietHoursEnabled,
		&quietStart, &quietEnd, &pref.CreatedAt, &pref.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select preference: %w", err)
	}

	if err := json.Unmarshal(channels, &pref.Channels); err != nil {
		return nil, fmt.Errorf("unmarshal preference channels: %w", err)
	}
	if pref.QuietStart, err = ParseTimeOfDay(quietStart); err != nil {
		return nil, err
	}
	if pref.QuietEnd, err = ParseTimeOfDay(quietEnd); err != nil {
		return nil, err
	}
	return &pref, nil
}

func (s *PGStorage) GetOrCreate(ctx context.Context, userID string) (*Preference, error) {
	pref, err := s.Get(ctx, userID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	def := Default(userID)
	if err := s.insert(ctx, def); err != nil {
		// A concurrent first notification may have created the row between
		// the select and the insert; re-read rather than fail the send.
		if pg.IsDuplicateKeyError(err) {
			return s.Get(ctx, userID)
		}
		return nil, err
	}
	return &def, nil
}

func (s *PGStorage) Set(ctx context.Context, pref Preference) error {
	if pref.UserID == "" {
		return ErrMissingUserID
	}

	channels, err := json.Marshal(pref.Channels)
	if err != nil {
		return fmt.Errorf("marshal preference channels: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_notification_preferences
			(user_id, channels, urgent_only, quiet_hours_enabled,
			 quiet_start, quiet_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			channels = EXCLUDED.channels,
			urgent_only = EXCLUDED.urgent_only,
			quiet_hours_enabled = EXCLUDED.quiet_hours_enabled,
			quiet_start = EXCLUDED.quiet_start,
			quiet_end = EXCLUDED.quiet_end,
			updated_at = now()`,
		pref.UserID, channels, pref.UrgentOnly, pref.QuietHoursEnabled,
		pref.QuietStart.String(), pref.QuietEnd.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

func (s *PGStorage) insert(ctx context.Context, pref Preference) error {
	channels, err := json.Marshal(pref.Channels)
	if err != nil {
		return fmt.Errorf("marshal preference channels: %w", err)
	}

	createdAt := pref.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_notification_preferences
			(user_id, channels, urgent_only, quiet_hours_enabled,
			 quiet_start, quiet_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		pref.UserID, channels, pref.UrgentOnly, pref.QuietHoursEnabled,
		pref.QuietStart.String(), pref.QuietEnd.String(), createdAt,
	)
	return err
}
