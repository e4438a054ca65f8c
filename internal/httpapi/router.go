package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"photoframe/internal/httpapi/handlers"
	"photoframe/internal/httpkit"
	"photoframe/internal/pkg/logger"
	"photoframe/internal/pkg/middleware"
)

// requestTimeout caps handler time; plan exports run in the worker.
const requestTimeout = 30 * time.Second

type Deps struct {
	Handlers       handlers.Deps
	AllowedOrigins []string
	Log            *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	if d.Handlers.Log == nil {
		d.Handlers.Log = log
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Recovery(log))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(d.Handlers)
	wrap := func(fn middleware.ErrorHandlerFunc) http.HandlerFunc {
		return middleware.WrapHandler(log, fn)
	}

	// ---- HEALTH / METRICS ----
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		// ---- CATALOG ----
		r.Get("/catalog", wrap(h.ListCatalog))
		r.Get("/catalog/{templateId}", wrap(h.GetCatalogTemplate))

		// ---- TEMPLATES ----
		r.Post("/templates/validate", wrap(h.ValidateTemplate))
		r.Post("/templates/import", wrap(h.ImportTemplate))
		r.Post("/templates", wrap(h.PostTemplate))
		r.Get("/templates", wrap(h.ListTemplates))
		r.Get("/templates/{templateId}", wrap(h.GetTemplate))
		r.Delete("/templates/{templateId}", wrap(h.DeleteTemplate))

		// ---- UNITS ----
		r.Get("/units/mm-to-px", wrap(h.MMToPx))
		r.Get("/units/px-to-mm", wrap(h.PxToMm))

		// ---- EXPORTS ----
		r.Post("/exports", wrap(h.PostExport))
		r.Get("/exports/{exportId}", wrap(h.GetExport))
		r.Get("/exports/{exportId}/plan", wrap(h.StreamExportPlan))
		r.Get("/exports/{exportId}/plan/url", wrap(h.GetExportPlanURL))
	})

	return r
}
