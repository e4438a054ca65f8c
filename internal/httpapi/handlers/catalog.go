package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"photoframe/internal/httpkit"
	"photoframe/internal/pkg/errors"
	"photoframe/internal/template"
)

type catalogFailure struct {
	File    string         `json:"file"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ListCatalog lists the shipped template files. Files that fail to load are
// reported under "invalid" instead of failing the request.
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) error {
	entries, err := h.catalog.List()
	if err != nil {
		return err
	}

	valid := []template.Entry{}
	invalid := []catalogFailure{}
	for _, e := range entries {
		observeValidation("catalog", e.Err)
		if e.Err == nil {
			valid = append(valid, e)
			continue
		}
		appErr := toAppError(templateError(e.Err, "catalog.list"))
		invalid = append(invalid, catalogFailure{
			File:    e.File,
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Fields,
		})
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"templates": valid,
		"invalid":   invalid,
	})
	return nil
}

// GetCatalogTemplate returns one shipped template document.
func (h *Handler) GetCatalogTemplate(w http.ResponseWriter, r *http.Request) error {
	doc, err := h.catalog.Get(chi.URLParam(r, "templateId"))
	observeValidation("catalog", err)
	if err != nil {
		return templateError(err, "catalog.get")
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"template": doc})
	return nil
}

func toAppError(err error) *errors.Error {
	var appErr *errors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return errors.Wrap(err, "", err.Error())
}
