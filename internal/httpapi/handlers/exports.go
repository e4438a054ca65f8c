package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"photoframe/internal/httpkit"
	"photoframe/internal/models"
	"photoframe/internal/pkg/errors"
	"photoframe/internal/repositories"
)

type CreateExportRequest struct {
	TemplateID string `json:"template_id"`
}

// PostExport queues a plan export for a registered template.
func (h *Handler) PostExport(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var req CreateExportRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return errors.WrapWithCode(err, errors.CodeBadRequest, "exports.create", "invalid json body")
	}
	req.TemplateID = strings.TrimSpace(req.TemplateID)
	if req.TemplateID == "" {
		return errors.ValidationField("template_id", "template_id is required")
	}

	exp, err := h.exports.Create(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return errors.NotFound("template", req.TemplateID)
		}
		return errors.Wrap(err, "exports.create", "db insert failed")
	}

	log := h.log.FromContext(ctx).WithExportID(exp.ID).WithTemplateID(exp.TemplateID)
	if err := h.queue.Push(ctx, exp.ID); err != nil {
		if ferr := h.exports.MarkFailed(ctx, exp.ID, "queue push failed: "+err.Error()); ferr != nil {
			log.Warn("failed to mark export as failed", "error", ferr.Error())
		}
		return errors.WrapWithCode(err, errors.CodeUnavailable, "exports.create", "queue push failed")
	}

	log.Info("export queued")
	httpkit.WriteJSON(w, http.StatusCreated, map[string]any{"export": exp})
	return nil
}

func (h *Handler) GetExport(w http.ResponseWriter, r *http.Request) error {
	exp, err := h.loadExport(r)
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"export": exp})
	return nil
}

func (h *Handler) loadExport(r *http.Request) (*models.Export, error) {
	id := chi.URLParam(r, "exportId")
	exp, err := h.exports.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrExportNotFound) {
			return nil, errors.NotFound("export", id)
		}
		return nil, errors.Wrap(err, "exports.get", "db query failed")
	}
	return exp, nil
}
