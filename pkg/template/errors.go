package template

import "errors"

var (
	ErrNotFound      = errors.New("template: not found")
	ErrAlreadyExists = errors.New("template: already exists, templates are immutable once registered")
)
