package models

import "time"

type ExportStatus string

const (
	ExportQueued  ExportStatus = "QUEUED"
	ExportRunning ExportStatus = "RUNNING"
	ExportDone    ExportStatus = "DONE"
	ExportFailed  ExportStatus = "FAILED"
)

// Final reports whether no further transition is expected.
func (s ExportStatus) Final() bool {
	return s == ExportDone || s == ExportFailed
}

type Export struct {
	ID         string       `json:"id"`
	TemplateID string       `json:"template_id"`
	Status     ExportStatus `json:"status"`
	Progress   float64      `json:"progress"`
	// PlanKey is the storage object key of plan.json once the export is done.
	PlanKey    string     `json:"plan_key,omitempty"`
	ErrorText  string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
