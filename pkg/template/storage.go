package template

import "context"

// Storage holds the template catalog.
type Storage interface {
	// Get retrieves an active template by id.
	Get(ctx context.Context, id string) (*Template, error)

	// Put registers a new template. Existing ids are rejected: referenced
	// templates are immutable, new versions get new ids.
	Put(ctx context.Context, tpl Template) error

	// List returns every active template.
	List(ctx context.Context) ([]Template, error)
}
