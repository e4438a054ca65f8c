package handlers

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"photoframe/internal/httpkit"
	"photoframe/internal/metrics"
	"photoframe/internal/models"
	"photoframe/internal/pkg/errors"
	"photoframe/internal/pkg/logger"
	"photoframe/internal/ports"
	"photoframe/internal/template"
)

// maxTemplateBytes bounds template request bodies.
const maxTemplateBytes = httpkit.MaxJSONBodyBytes

// TemplateStore is the template registry. *repositories.TemplateRepository
// satisfies it.
type TemplateStore interface {
	Create(ctx context.Context, doc template.Document) (*models.Template, error)
	List(ctx context.Context) ([]models.Template, error)
	Get(ctx context.Context, id string) (*models.Template, error)
	Delete(ctx context.Context, id string) error
}

// ExportStore is the export job table. *repositories.ExportRepository
// satisfies it.
type ExportStore interface {
	Create(ctx context.Context, templateID string) (*models.Export, error)
	Get(ctx context.Context, id string) (*models.Export, error)
	MarkFailed(ctx context.Context, id, errorText string) error
}

// Enqueuer hands export ids to the worker.
type Enqueuer interface {
	Push(ctx context.Context, id string) error
}

type Deps struct {
	// Pool and RDB are only used by the deep health check and may be nil.
	Pool *pgxpool.Pool
	RDB  *redis.Client

	SP        ports.StorageProvider
	Catalog   *template.Catalog
	Templates TemplateStore
	Exports   ExportStore
	Queue     Enqueuer
	Log       *logger.Logger
}

type Handler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	sp        ports.StorageProvider
	catalog   *template.Catalog
	templates TemplateStore
	exports   ExportStore
	queue     Enqueuer
	log       *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Handler{
		pool:      d.Pool,
		rdb:       d.RDB,
		sp:        d.SP,
		catalog:   d.Catalog,
		templates: d.Templates,
		exports:   d.Exports,
		queue:     d.Queue,
		log:       log.WithComponent("httpapi"),
	}
}

// templateError turns a validation failure into a 422 error and leaves
// every other error as is.
func templateError(err error, op string) error {
	if template.IsValidation(err) {
		return errors.Invalid(err, op)
	}
	return err
}

// observeValidation counts validation outcomes. Read and parse failures
// never reached the validator and are not counted.
func observeValidation(source string, err error) {
	if err == nil || template.IsValidation(err) {
		metrics.ObserveValidation(source, string(template.KindOf(err)))
	}
}

func limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTemplateBytes)
}
