package handlers

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"photoframe/internal/httpkit"
	"photoframe/internal/models"
	"photoframe/internal/pkg/errors"
)

const planURLExpiry = 30 * time.Minute

// GetExportPlanURL returns a link to the plan of a finished export. When the
// storage provider cannot sign URLs the API content route is returned.
func (h *Handler) GetExportPlanURL(w http.ResponseWriter, r *http.Request) error {
	exp, err := h.donePlan(r)
	if err != nil {
		return err
	}

	out, err := h.sp.GetSignedURL(r.Context(), exp.PlanKey, planURLExpiry)
	if err != nil {
		return errors.Wrap(err, "exports.plan_url", "failed to sign plan url")
	}
	if out.URL == "" {
		out.URL = fmt.Sprintf("/exports/%s/plan", exp.ID)
		out.ExpiresAt = time.Now().UTC().Add(planURLExpiry)
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"export_id":  exp.ID,
		"url":        out.URL,
		"expires_at": out.ExpiresAt,
	})
	return nil
}

// StreamExportPlan copies plan.json of a finished export from storage.
func (h *Handler) StreamExportPlan(w http.ResponseWriter, r *http.Request) error {
	exp, err := h.donePlan(r)
	if err != nil {
		return err
	}

	rc, ct, size, err := h.sp.GetObject(r.Context(), exp.PlanKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.WrapWithCode(err, errors.CodeNotFound, "exports.plan", "plan file missing").
				WithField("object_key", exp.PlanKey)
		}
		return errors.Wrap(err, "exports.plan", "failed to read plan")
	}
	defer rc.Close()

	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	_, _ = io.Copy(w, rc)
	return nil
}

func (h *Handler) donePlan(r *http.Request) (*models.Export, error) {
	exp, err := h.loadExport(r)
	if err != nil {
		return nil, err
	}
	if exp.Status != models.ExportDone || exp.PlanKey == "" {
		return nil, errors.Newf(errors.CodeConflict, "export is %s", exp.Status).
			WithField("export_id", exp.ID).
			WithField("status", string(exp.Status))
	}
	return exp, nil
}
