package processor

import (
	"context"
	"time"

	"photoframe/internal/export"
	"photoframe/internal/metrics"
	"photoframe/internal/models"
	"photoframe/internal/pkg/errors"
	"photoframe/internal/pkg/logger"
	"photoframe/internal/ports"
	"photoframe/internal/template"
)

// Exports is the export job store. *repositories.ExportRepository
// satisfies it.
type Exports interface {
	Get(ctx context.Context, id string) (*models.Export, error)
	MarkRunning(ctx context.Context, id string) error
	SetProgress(ctx context.Context, id string, progress float64) error
	MarkDone(ctx context.Context, id, planKey string) error
	MarkFailed(ctx context.Context, id, errorText string) error
}

// Templates is the template registry. *repositories.TemplateRepository
// satisfies it.
type Templates interface {
	Get(ctx context.Context, id string) (*models.Template, error)
}

type Deps struct {
	Exports   Exports
	Templates Templates
	SP        ports.StorageProvider
	TileSize  int
	Log       *logger.Logger
}

type Processor struct {
	exports   Exports
	templates Templates
	tileSize  int
	log       *logger.Logger

	outputHandler *OutputHandler
}

func New(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}

	return &Processor{
		exports:       d.Exports,
		templates:     d.Templates,
		tileSize:      d.TileSize,
		log:           log.WithComponent("processor"),
		outputHandler: NewOutputHandler(d.SP),
	}
}

// ProcessJob plans one export: it re-validates the registered template,
// writes plan.json through the storage provider and records the outcome on
// the export row.
func (p *Processor) ProcessJob(ctx context.Context, exportID string) error {
	log := p.log.FromContext(ctx).WithExportID(exportID)
	start := time.Now()
	defer func() { metrics.ExportDuration.Observe(time.Since(start).Seconds()) }()

	// 1. Load the job. Without a row there is nothing to mark failed.
	job, err := p.exports.Get(ctx, exportID)
	if err != nil {
		metrics.ExportJobs.WithLabelValues(string(models.ExportFailed)).Inc()
		return errors.Wrap(err, "processor.fetch", "failed to fetch export")
	}
	log = log.WithTemplateID(job.TemplateID)

	// 2. Mark running.
	if err := p.exports.MarkRunning(ctx, exportID); err != nil {
		return p.failJob(ctx, exportID, errors.Wrap(err, "processor.status", "failed to mark export as running"))
	}

	// 3. Load the template from the registry.
	tpl, err := p.templates.Get(ctx, job.TemplateID)
	if err != nil {
		return p.failJob(ctx, exportID, errors.Wrap(err, "processor.template", "failed to load template").
			WithField("template_id", job.TemplateID))
	}

	// 4. Plan. NewPlan validates again, the registry row may predate rule changes.
	plan, err := export.NewPlan(tpl.Definition, p.tileSize)
	if err != nil {
		metrics.ObserveValidation("worker", string(template.KindOf(err)))
		return p.failJob(ctx, exportID, err)
	}
	metrics.ObserveValidation("worker", "")
	log.Debug("plan computed",
		"canvas_w", plan.Canvas.W,
		"canvas_h", plan.Canvas.H,
		"tiles", len(plan.Tiles),
		"skipped_slots", len(plan.SkippedSlots),
	)
	if err := p.exports.SetProgress(ctx, exportID, 0.5); err != nil {
		log.Warn("failed to record progress", "error", err.Error())
	}

	// 5. Write the plan.
	key, err := p.outputHandler.WritePlan(ctx, exportID, plan)
	if err != nil {
		return p.failJob(ctx, exportID, errors.Wrap(err, "processor.output", "failed to write plan"))
	}

	// 6. Done.
	if err := p.exports.MarkDone(ctx, exportID, key); err != nil {
		return p.failJob(ctx, exportID, errors.Wrap(err, "processor.status", "failed to mark export as done"))
	}
	metrics.ExportJobs.WithLabelValues(string(models.ExportDone)).Inc()
	log.Info("export planned", "plan_key", key)
	return nil
}

func (p *Processor) failJob(ctx context.Context, exportID string, cause error) error {
	log := p.log.FromContext(ctx).WithExportID(exportID)
	metrics.ExportJobs.WithLabelValues(string(models.ExportFailed)).Inc()

	var appErr *errors.Error
	if errors.As(cause, &appErr) {
		log.Error("export failed",
			"code", string(appErr.Code),
			"op", appErr.Op,
			"message", appErr.Message,
		)
	} else {
		log.Error("export failed", "error", cause.Error())
	}

	if err := p.exports.MarkFailed(ctx, exportID, cause.Error()); err != nil {
		log.Warn("failed to mark export as failed", "error", err.Error())
	}
	return cause
}
