package models

import (
	"time"

	"photoframe/internal/template"
)

// Template is a registry row. Definition is the validated document as
// stored in the definition_json column.
type Template struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Definition template.Document `json:"definition,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	DeletedAt  *time.Time        `json:"deleted_at,omitempty"`
}
