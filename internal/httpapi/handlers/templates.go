package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"photoframe/internal/httpkit"
	"photoframe/internal/pkg/errors"
	"photoframe/internal/repositories"
	"photoframe/internal/template"
)

// ValidateTemplate checks the posted document without storing it.
func (h *Handler) ValidateTemplate(w http.ResponseWriter, r *http.Request) error {
	limitBody(w, r)
	_, err := template.Decode(r.Body)
	observeValidation("api", err)
	if err != nil {
		return templateError(err, "templates.validate")
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"valid": true})
	return nil
}

// PostTemplate registers the posted document under its id.
func (h *Handler) PostTemplate(w http.ResponseWriter, r *http.Request) error {
	limitBody(w, r)
	doc, err := template.Decode(r.Body)
	observeValidation("api", err)
	if err != nil {
		return templateError(err, "templates.create")
	}
	return h.createTemplate(w, r, doc)
}

type ImportTemplateRequest struct {
	ObjectKey string `json:"object_key"`
}

// ImportTemplate registers a template file already stored behind the
// storage provider.
func (h *Handler) ImportTemplate(w http.ResponseWriter, r *http.Request) error {
	var req ImportTemplateRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return errors.WrapWithCode(err, errors.CodeBadRequest, "templates.import", "invalid json body")
	}
	req.ObjectKey = strings.TrimSpace(req.ObjectKey)
	if req.ObjectKey == "" {
		return errors.ValidationField("object_key", "object_key is required")
	}

	doc, err := template.LoadObject(r.Context(), h.sp, req.ObjectKey)
	observeValidation("storage", err)
	if err != nil {
		return templateError(err, "templates.import")
	}
	return h.createTemplate(w, r, doc)
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request, doc template.Document) error {
	tpl, err := h.templates.Create(r.Context(), doc)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTemplateExists):
			return errors.AlreadyExists("template", doc.ID())
		case template.IsValidation(err):
			return errors.Invalid(err, "templates.create")
		case errors.IsCode(err, errors.CodeValidation):
			return err
		}
		return errors.Wrap(err, "templates.create", "db insert failed")
	}

	h.log.FromContext(r.Context()).WithTemplateID(tpl.ID).Info("template registered")
	httpkit.WriteJSON(w, http.StatusCreated, map[string]any{"template": tpl})
	return nil
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) error {
	items, err := h.templates.List(r.Context())
	if err != nil {
		return errors.Wrap(err, "templates.list", "db query failed")
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"templates": items})
	return nil
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "templateId")
	tpl, err := h.templates.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return errors.NotFound("template", id)
		}
		return errors.Wrap(err, "templates.get", "db query failed")
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"template": tpl})
	return nil
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "templateId")
	if err := h.templates.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return errors.NotFound("template", id)
		}
		return errors.Wrap(err, "templates.delete", "db update failed")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
