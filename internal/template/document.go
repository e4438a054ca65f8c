// Package template validates and loads photo-frame layout templates.
//
// A template is kept as the generic JSON tree it was parsed from. Validate
// narrows that tree against a fixed, deliberately small ruleset; Load and
// Decode parse a document and validate it before handing it back unchanged.
package template

import "encoding/json"

// SupportedDPI is the only canvas resolution templates may declare.
const SupportedDPI = 600

// Document is a parsed template: an untyped JSON object.
type Document map[string]any

// ID returns the template id, or "" when it is not a string.
func (d Document) ID() string {
	s, _ := d["id"].(string)
	return s
}

// Name returns the template display name, or "" when it is not a string.
func (d Document) Name() string {
	s, _ := d["name"].(string)
	return s
}

// Canvas returns the canvas object, or nil when it is not an object.
func (d Document) Canvas() map[string]any {
	m, _ := Object(d["canvas"])
	return m
}

// CanvasNumber returns a numeric canvas field.
func (d Document) CanvasNumber(key string) (float64, bool) {
	return Number(d.Canvas()[key])
}

// Slots returns the slot entries, or nil when slots is not an array.
func (d Document) Slots() []any {
	s, _ := d["slots"].([]any)
	return s
}

// Number narrows a JSON value to a float64. Booleans are not numbers.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Object narrows a JSON value to a mapping.
func Object(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}
