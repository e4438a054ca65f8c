package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"photoframe/internal/httpkit"
	"photoframe/internal/models"
	apperrors "photoframe/internal/pkg/errors"
	"photoframe/internal/template"
)

var ErrTemplateNotFound = errors.New("template not found")
var ErrTemplateExists = errors.New("template already exists")

type TemplateRepository struct {
	db DB
}

func NewTemplateRepository(db DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create validates doc and stores it under doc.ID(). A soft-deleted row with
// the same id is replaced; a live one yields ErrTemplateExists. Validation
// failures are returned as *template.ValidationError. The registry also needs
// id and name to be non-empty strings; anything else is a VALIDATION_ERROR.
func (r *TemplateRepository) Create(ctx context.Context, doc template.Document) (*models.Template, error) {
	if err := template.Validate(doc); err != nil {
		return nil, err
	}
	for _, key := range []string{"id", "name"} {
		if s, ok := doc[key].(string); !ok || strings.TrimSpace(s) == "" {
			return nil, apperrors.ValidationField(key, key+" must be a non-empty string")
		}
	}
	def, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	t := &models.Template{ID: doc.ID(), Name: doc.Name(), Definition: doc}
	err = r.db.QueryRow(ctx, `
		INSERT INTO templates (id, name, definition_json)
		VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE
		SET name=EXCLUDED.name,
		    definition_json=EXCLUDED.definition_json,
		    created_at=now(),
		    deleted_at=NULL
		WHERE templates.deleted_at IS NOT NULL
		RETURNING created_at
	`, t.ID, t.Name, def).Scan(&t.CreatedAt)
	if err != nil {
		// The conflict branch returns no row when the existing one is live.
		if errors.Is(err, pgx.ErrNoRows) || httpkit.IsUniqueViolation(err) {
			return nil, ErrTemplateExists
		}
		return nil, err
	}
	return t, nil
}

// List returns live templates without their definitions, newest first.
func (r *TemplateRepository) List(ctx context.Context) ([]models.Template, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at
		FROM templates
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Template{}
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns a live template with its definition. The stored document is
// parsed but not validated; callers that need a valid document validate it.
func (r *TemplateRepository) Get(ctx context.Context, id string) (*models.Template, error) {
	var (
		t   models.Template
		def []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, definition_json, created_at
		FROM templates
		WHERE id=$1 AND deleted_at IS NULL
	`, id).Scan(&t.ID, &t.Name, &def, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	t.Definition, err = template.Parse(bytes.NewReader(def))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete soft-deletes a live template.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE templates
		SET deleted_at=now()
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
