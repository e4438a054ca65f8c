package export

import (
	"fmt"
	"math"

	"photoframe/internal/pkg/errors"
	"photoframe/internal/template"
	"photoframe/internal/units"
)

type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// SlotRect is a slot placed on the full (bleed-inclusive) canvas.
type SlotRect struct {
	ID       string  `json:"id"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	W        int     `json:"w"`
	H        int     `json:"h"`
	Rotation float64 `json:"rotation"`
	Mode     string  `json:"mode"`
}

// Plan is the pixel layout of one export.
type Plan struct {
	TemplateID string `json:"template_id"`
	DPI        int    `json:"dpi"`
	// Trim is the finished print size, Canvas adds the bleed on every side.
	Trim    Size `json:"trim_px"`
	Canvas  Size `json:"canvas_px"`
	BleedPx int  `json:"bleed_px"`
	SafePx  int  `json:"safe_px"`

	TileSize int        `json:"tile_size"`
	Tiles    []Tile     `json:"tiles"`
	Slots    []SlotRect `json:"slots"`
	// SkippedSlots holds indexes of slots whose geometry is not numeric.
	SkippedSlots []int `json:"skipped_slots,omitempty"`
}

// Plan limits. MaxCanvasPx bounds every pixel length of a plan, bleed
// included; MaxTiles bounds the tile grid.
const (
	MaxCanvasPx = 1 << 16
	MaxTiles    = 1024
)

// NewPlan validates doc and computes its export plan. Slot coordinates are
// measured from the trim corner, so they are shifted by the bleed. Sizes
// beyond MaxCanvasPx or grids beyond MaxTiles are rejected as
// TEMPLATE_INVALID.
func NewPlan(doc template.Document, tileSize int) (*Plan, error) {
	if err := template.Validate(doc); err != nil {
		return nil, errors.Invalid(err, "export.plan")
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	dpi, _ := doc.CanvasNumber("dpi")
	var sizes [4]int
	for i, key := range []string{"width_mm", "height_mm", "bleed_mm", "safe_mm"} {
		mm, _ := doc.CanvasNumber(key)
		px, err := boundedPx("canvas."+key, mm, dpi)
		if err != nil {
			return nil, err
		}
		sizes[i] = px
	}

	p := &Plan{
		TemplateID: doc.ID(),
		DPI:        int(dpi),
		Trim:       Size{W: sizes[0], H: sizes[1]},
		BleedPx:    sizes[2],
		SafePx:     sizes[3],
		TileSize:   tileSize,
		Slots:      []SlotRect{},
	}
	p.Canvas = Size{W: p.Trim.W + 2*p.BleedPx, H: p.Trim.H + 2*p.BleedPx}
	if p.Canvas.W > MaxCanvasPx || p.Canvas.H > MaxCanvasPx {
		return nil, limitError("canvas", "canvas is %dx%d px, limit is %d", p.Canvas.W, p.Canvas.H, MaxCanvasPx).
			WithField("max_px", MaxCanvasPx)
	}
	if n := tileCount(p.Canvas.W, tileSize) * tileCount(p.Canvas.H, tileSize); n > MaxTiles {
		return nil, limitError("tile_size", "plan needs %d tiles, limit is %d", n, MaxTiles).
			WithField("max_tiles", MaxTiles)
	}
	p.Tiles = Tiles(p.Canvas.W, p.Canvas.H, tileSize)

	for i, entry := range doc.Slots() {
		slot, _ := template.Object(entry)
		rect, ok, err := slotRect(slot, dpi, p.BleedPx)
		if err != nil {
			return nil, err.WithField("slot", i)
		}
		if !ok {
			p.SkippedSlots = append(p.SkippedSlots, i)
			continue
		}
		p.Slots = append(p.Slots, rect)
	}
	return p, nil
}

func slotRect(slot map[string]any, dpi float64, bleedPx int) (SlotRect, bool, *errors.Error) {
	keys := []string{"x_mm", "y_mm", "w_mm", "h_mm"}
	var mm [4]float64
	for i, key := range keys {
		v, ok := template.Number(slot[key])
		if !ok {
			return SlotRect{}, false, nil
		}
		mm[i] = v
	}
	var px [4]int
	for i, key := range keys {
		v, err := boundedPx("slots."+key, mm[i], dpi)
		if err != nil {
			return SlotRect{}, false, err
		}
		px[i] = v
	}
	rotation, _ := template.Number(slot["rotation"])
	mode, _ := slot["mode"].(string)

	return SlotRect{
		ID:       fmt.Sprint(slot["id"]),
		X:        px[0] + bleedPx,
		Y:        px[1] + bleedPx,
		W:        px[2],
		H:        px[3],
		Rotation: rotation,
		Mode:     mode,
	}, true, nil
}

// boundedPx converts mm to whole pixels, failing when the magnitude exceeds
// MaxCanvasPx.
func boundedPx(field string, mm, dpi float64) (int, *errors.Error) {
	px := math.Round(units.MMToPx(mm, dpi))
	if math.IsNaN(px) || math.Abs(px) > MaxCanvasPx {
		return 0, limitError(field, "%s is out of range at %g dpi", field, dpi).
			WithField("max_px", MaxCanvasPx)
	}
	return int(px), nil
}

func tileCount(total, tile int) int {
	if total <= 0 {
		return 0
	}
	return (total + tile - 1) / tile
}

func limitError(field, format string, args ...any) *errors.Error {
	e := errors.Newf(errors.CodeUnprocessable, format, args...).WithField("field", field)
	e.Op = "export.plan"
	return e
}
