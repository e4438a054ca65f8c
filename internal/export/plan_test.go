package export

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"photoframe/internal/pkg/errors"
	"photoframe/internal/template"
)

func loadFixture(t *testing.T, id string) template.Document {
	t.Helper()
	doc, err := template.Load(filepath.Join("../../public/templates", id+".json"))
	if err != nil {
		t.Fatalf("load %s: %v", id, err)
	}
	return doc
}

func TestNewPlan(t *testing.T) {
	p, err := NewPlan(loadFixture(t, "4-hor"), 2048)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if p.TemplateID != "4-hor" || p.DPI != 600 {
		t.Errorf("unexpected header %s/%d", p.TemplateID, p.DPI)
	}
	if diff := cmp.Diff(Size{W: 3600, H: 2400}, p.Trim); diff != "" {
		t.Errorf("trim mismatch (-want +got):\n%s", diff)
	}
	if p.BleedPx != 47 || p.SafePx != 71 {
		t.Errorf("expected bleed 47 safe 71, got %d %d", p.BleedPx, p.SafePx)
	}
	if diff := cmp.Diff(Size{W: 3694, H: 2494}, p.Canvas); diff != "" {
		t.Errorf("canvas mismatch (-want +got):\n%s", diff)
	}
	if len(p.Tiles) != 4 {
		t.Errorf("expected 4 tiles, got %d", len(p.Tiles))
	}

	wantSlots := []SlotRect{
		{ID: "s1", X: 189, Y: 189, W: 1606, H: 992, Mode: "cover"},
		{ID: "s2", X: 1899, Y: 189, W: 1606, H: 992, Mode: "cover"},
	}
	if diff := cmp.Diff(wantSlots, p.Slots[:2]); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
	if len(p.SkippedSlots) != 0 {
		t.Errorf("expected no skipped slots, got %v", p.SkippedSlots)
	}
}

func TestNewPlanSkipsNonNumericSlots(t *testing.T) {
	doc := loadFixture(t, "4-ver")
	doc.Slots()[2].(map[string]any)["x_mm"] = "left"

	p, err := NewPlan(doc, 0)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if len(p.Slots) != 3 {
		t.Errorf("expected 3 placed slots, got %d", len(p.Slots))
	}
	if diff := cmp.Diff([]int{2}, p.SkippedSlots); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
	if p.TileSize != DefaultTileSize {
		t.Errorf("expected default tile size, got %d", p.TileSize)
	}
}

func TestNewPlanRejectsInvalidTemplate(t *testing.T) {
	doc := loadFixture(t, "1-full")
	doc.Canvas()["dpi"] = 300

	_, err := NewPlan(doc, 0)
	if !errors.IsCode(err, errors.CodeUnprocessable) {
		t.Fatalf("expected TEMPLATE_INVALID, got %v", err)
	}
	if template.KindOf(err) != template.KindUnsupportedDPI {
		t.Errorf("expected wrapped unsupported dpi, got %v", err)
	}
}

func TestNewPlanLimits(t *testing.T) {
	tests := []struct {
		name     string
		edit     func(doc template.Document)
		tileSize int
		field    string
	}{
		{
			name: "canvas overflows int",
			edit: func(doc template.Document) {
				doc.Canvas()["width_mm"] = 1e300
				doc.Canvas()["height_mm"] = 1e300
			},
			field: "canvas.width_mm",
		},
		{
			name: "canvas above pixel limit",
			edit: func(doc template.Document) {
				doc.Canvas()["width_mm"] = 200000
				doc.Canvas()["height_mm"] = 200000
			},
			field: "canvas.width_mm",
		},
		{
			name: "bleed pushes canvas over limit",
			edit: func(doc template.Document) {
				// 2700 mm is 63780 px, the bleed adds 2x2362 px.
				doc.Canvas()["width_mm"] = 2700
				doc.Canvas()["bleed_mm"] = 100
			},
			field: "canvas",
		},
		{
			name:     "too many tiles",
			edit:     func(doc template.Document) {},
			tileSize: 64,
			field:    "tile_size",
		},
		{
			name: "slot overflows int",
			edit: func(doc template.Document) {
				doc.Slots()[1].(map[string]any)["w_mm"] = 1e300
			},
			field: "slots.w_mm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := loadFixture(t, "4-hor")
			tt.edit(doc)

			p, err := NewPlan(doc, tt.tileSize)
			if !errors.IsCode(err, errors.CodeUnprocessable) {
				t.Fatalf("expected TEMPLATE_INVALID, got plan=%v err=%v", p, err)
			}
			if got := errors.GetFields(err)["field"]; got != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, got)
			}
		})
	}
}

func TestNewPlanAtTileLimit(t *testing.T) {
	// 3694x2494 px in 128 px tiles is a 29x20 grid.
	p, err := NewPlan(loadFixture(t, "4-hor"), 128)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if len(p.Tiles) != 29*20 {
		t.Errorf("expected %d tiles, got %d", 29*20, len(p.Tiles))
	}
}
