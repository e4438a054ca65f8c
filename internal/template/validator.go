package template

import "sort"

var (
	requiredTopLevelKeys = []string{"id", "name", "canvas", "overlay", "slots", "texts"}
	requiredCanvasKeys   = []string{"width_mm", "height_mm", "dpi", "bleed_mm", "safe_mm", "background"}
	canvasDistanceFields = []string{"width_mm", "height_mm", "bleed_mm", "safe_mm"}
	requiredSlotKeys     = []string{"id", "x_mm", "y_mm", "w_mm", "h_mm", "rotation", "mode"}
)

// Validate checks doc against the template ruleset and returns a
// *ValidationError describing the first violation, or nil.
//
// Rules are applied in a fixed order: top-level keys, canvas shape, canvas
// keys, dpi, canvas distances, overlay, slots, each slot entry, texts.
// Slot field values and text entries are not type checked.
func Validate(doc Document) error {
	if missing := missingKeys(doc, requiredTopLevelKeys); len(missing) > 0 {
		return &ValidationError{Kind: KindMissingTopLevelKeys, Missing: missing}
	}

	canvas, ok := Object(doc["canvas"])
	if !ok {
		return &ValidationError{Kind: KindCanvasNotObject}
	}

	if missing := missingKeys(canvas, requiredCanvasKeys); len(missing) > 0 {
		return &ValidationError{Kind: KindMissingCanvasKeys, Missing: missing}
	}

	if dpi, ok := Number(canvas["dpi"]); !ok || dpi != SupportedDPI {
		return &ValidationError{Kind: KindUnsupportedDPI, Got: canvas["dpi"]}
	}

	for _, field := range canvasDistanceFields {
		if v, ok := Number(canvas[field]); !ok || !(v >= 0) {
			return &ValidationError{Kind: KindInvalidCanvasField, Field: field}
		}
	}

	if overlay, ok := doc["overlay"].(string); !ok || overlay == "" {
		return &ValidationError{Kind: KindInvalidOverlay}
	}

	slots, ok := doc["slots"].([]any)
	if !ok {
		return &ValidationError{Kind: KindSlotsNotArray}
	}
	for i, entry := range slots {
		slot, ok := Object(entry)
		if !ok {
			return &ValidationError{Kind: KindSlotEntryNotObject, Index: i}
		}
		for _, key := range requiredSlotKeys {
			if _, present := slot[key]; !present {
				return &ValidationError{Kind: KindSlotMissingKey, Index: i, Field: key}
			}
		}
	}

	if _, ok := doc["texts"].([]any); !ok {
		return &ValidationError{Kind: KindTextsNotArray}
	}

	return nil
}

func missingKeys(m map[string]any, required []string) []string {
	var missing []string
	for _, k := range required {
		if _, ok := m[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}
