package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"photoframe/internal/httpkit"
	"photoframe/internal/pkg/errors"
	"photoframe/internal/units"
)

// maxExactPx is the largest magnitude px_rounded is reported for; above it
// float64 no longer holds every integer.
const maxExactPx = 1 << 53

// MMToPx handles GET /units/mm-to-px?mm=&dpi=.
func (h *Handler) MMToPx(w http.ResponseWriter, r *http.Request) error {
	mm, err := queryFloat(r, "mm")
	if err != nil {
		return err
	}
	dpi, err := queryDPI(r)
	if err != nil {
		return err
	}
	px := units.MMToPx(mm, dpi)
	if math.IsInf(px, 0) || math.Abs(math.Round(px)) > maxExactPx {
		return errors.ValidationField("mm", "mm converts to a pixel value out of range")
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"mm":         mm,
		"dpi":        dpi,
		"px":         px,
		"px_rounded": units.PxSize(mm, dpi),
	})
	return nil
}

// PxToMm handles GET /units/px-to-mm?px=&dpi=.
func (h *Handler) PxToMm(w http.ResponseWriter, r *http.Request) error {
	px, err := queryFloat(r, "px")
	if err != nil {
		return err
	}
	dpi, err := queryDPI(r)
	if err != nil {
		return err
	}
	mm := units.PxToMm(px, dpi)
	if math.IsInf(mm, 0) {
		return errors.ValidationField("px", "px converts to a length out of range")
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"px":  px,
		"dpi": dpi,
		"mm":  mm,
	})
	return nil
}

func queryFloat(r *http.Request, key string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, errors.ValidationField(key, key+" is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.ValidationField(key, key+" must be a finite number")
	}
	return v, nil
}

func queryDPI(r *http.Request) (float64, error) {
	dpi, err := queryFloat(r, "dpi")
	if err != nil {
		return 0, err
	}
	if dpi <= 0 {
		return 0, errors.ValidationField("dpi", "dpi must be > 0")
	}
	return dpi, nil
}
