package repositories

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	definition_json JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at      TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS exports (
	id          TEXT PRIMARY KEY,
	template_id TEXT NOT NULL REFERENCES templates(id),
	status      TEXT NOT NULL CHECK (status IN ('QUEUED', 'RUNNING', 'DONE', 'FAILED')),
	progress    DOUBLE PRECISION NOT NULL DEFAULT 0,
	plan_key    TEXT,
	error_text  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at  TIMESTAMPTZ,
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_exports_template ON exports(template_id);
`

// Migrate creates the registry tables when they do not exist yet.
func Migrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, schema)
	return err
}
