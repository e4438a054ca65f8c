package repositories

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"photoframe/internal/models"
	"photoframe/internal/pkg/ids"
)

var ErrExportNotFound = errors.New("export not found")

// maxErrorText bounds error_text so a runaway message cannot bloat the row.
const maxErrorText = 2000

type ExportRepository struct {
	db DB
}

func NewExportRepository(db DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts a QUEUED export for a live template.
func (r *ExportRepository) Create(ctx context.Context, templateID string) (*models.Export, error) {
	e := &models.Export{
		ID:         ids.New("exp"),
		TemplateID: templateID,
		Status:     models.ExportQueued,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO exports (id, template_id, status, progress)
		SELECT $1, t.id, $3, 0
		FROM templates t
		WHERE t.id=$2 AND t.deleted_at IS NULL
		RETURNING created_at
	`, e.ID, templateID, string(models.ExportQueued)).Scan(&e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *ExportRepository) Get(ctx context.Context, id string) (*models.Export, error) {
	var (
		e                  models.Export
		status             string
		planKey, errorText *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, template_id, status, progress, plan_key, error_text,
		       created_at, started_at, finished_at
		FROM exports
		WHERE id=$1
	`, id).Scan(
		&e.ID,
		&e.TemplateID,
		&status,
		&e.Progress,
		&planKey,
		&errorText,
		&e.CreatedAt,
		&e.StartedAt,
		&e.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	e.Status = models.ExportStatus(status)
	if planKey != nil {
		e.PlanKey = *planKey
	}
	if errorText != nil {
		e.ErrorText = *errorText
	}
	return &e, nil
}

func (r *ExportRepository) MarkRunning(ctx context.Context, id string) error {
	return r.update(ctx, `
		UPDATE exports
		SET status='RUNNING', progress=0, started_at=now(), finished_at=NULL, error_text=NULL
		WHERE id=$1
	`, id)
}

// SetProgress records a progress fraction in [0,1].
func (r *ExportRepository) SetProgress(ctx context.Context, id string, progress float64) error {
	return r.update(ctx, `UPDATE exports SET progress=$2 WHERE id=$1`, id, progress)
}

func (r *ExportRepository) MarkDone(ctx context.Context, id, planKey string) error {
	return r.update(ctx, `
		UPDATE exports
		SET status='DONE', progress=1, plan_key=$2, finished_at=now()
		WHERE id=$1
	`, id, planKey)
}

func (r *ExportRepository) MarkFailed(ctx context.Context, id, errorText string) error {
	return r.update(ctx, `
		UPDATE exports
		SET status='FAILED', finished_at=now(), error_text=$2
		WHERE id=$1
	`, id, truncateText(errorText, maxErrorText))
}

// truncateText cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (r *ExportRepository) update(ctx context.Context, sql string, args ...any) error {
	cmd, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrExportNotFound
	}
	return nil
}
