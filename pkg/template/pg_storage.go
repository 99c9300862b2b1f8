package template

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/notify/pkg/notification"
	"github.com/campuskit/notify/pkg/pg"
)

// PGStorage keeps the template catalog in the `notification_templates`
// table for deployments that manage templates outside the binary.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Postgres-backed template store.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Get(ctx context.Context, id string) (*Template, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, category, title_template, body_template, html_template,
		       variables, default_channels, default_priority, localized, is_active, created_at
		FROM notification_templates
		WHERE id = $1 AND is_active = TRUE`, id)

	tpl, err := scanTemplate(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select template: %w", err)
	}
	return tpl, nil
}

func (s *PGStorage) Put(ctx context.Context, tpl Template) error {
	channels := make([]string, len(tpl.DefaultChannels))
	for i, c := range tpl.DefaultChannels {
		channels[i] = string(c)
	}

	localized, err := json.Marshal(tpl.Localized)
	if err != nil {
		return fmt.Errorf("marshal template localizations: %w", err)
	}

	createdAt := tpl.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notification_templates
			(id, name, category, title_template, body_template, html_template,
			 variables, default_channels, default_priority, localized, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		tpl.ID, tpl.Name, string(tpl.Category), tpl.TitleTemplate, tpl.BodyTemplate,
		tpl.HTMLTemplate, tpl.Variables, channels, string(tpl.DefaultPriority),
		localized, tpl.IsActive, createdAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (s *PGStorage) List(ctx context.Context) ([]Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category, title_template, body_template, html_template,
		       variables, default_channels, default_priority, localized, is_active, created_at
		FROM notification_templates
		WHERE is_active = TRUE
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, *tpl)
	}
	return out, rows.Err()
}

func scanTemplate(row pgx.Row) (*Template, error) {
	var (
		tpl       Template
		category  string
		channels  []string
		priority  string
		localized []byte
	)
	err := row.Scan(&tpl.ID, &tpl.Name, &category, &tpl.TitleTemplate, &tpl.BodyTemplate,
		&tpl.HTMLTemplate, &tpl.Variables, &channels, &priority, &localized,
		&tpl.IsActive, &tpl.CreatedAt)
	if err != nil {
		return nil, err
	}

	tpl.Category = notification.Category(category)
	tpl.DefaultPriority = notification.Priority(priority)
	tpl.DefaultChannels = make([]notification.Channel, len(channels))
	for i, c := range channels {
		tpl.DefaultChannels[i] = notification.Channel(c)
	}
	if len(localized) > 0 {
		if err := json.Unmarshal(localized, &tpl.Localized); err != nil {
			return nil, err
		}
	}
	return &tpl, nil
}
