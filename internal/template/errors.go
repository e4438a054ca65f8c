package template

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which template rule was violated.
type Kind string

const (
	KindMissingTopLevelKeys Kind = "missing_top_level_keys"
	KindCanvasNotObject     Kind = "canvas_not_object"
	KindMissingCanvasKeys   Kind = "missing_canvas_keys"
	KindUnsupportedDPI      Kind = "unsupported_dpi"
	KindInvalidCanvasField  Kind = "invalid_canvas_field"
	KindInvalidOverlay      Kind = "invalid_overlay"
	KindSlotsNotArray       Kind = "slots_not_array"
	KindSlotEntryNotObject  Kind = "slot_entry_not_object"
	KindSlotMissingKey      Kind = "slot_missing_key"
	KindTextsNotArray       Kind = "texts_not_array"
)

// ValidationError reports the first rule a template document violates.
type ValidationError struct {
	Kind Kind
	// Missing lists absent keys, sorted, for the two missing-keys kinds.
	Missing []string
	// Index is the offending slot position for the slot kinds.
	Index int
	// Field is the canvas field name or the missing slot key.
	Field string
	// Got is the observed canvas.dpi value.
	Got any
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingTopLevelKeys:
		return "template is missing keys: " + strings.Join(e.Missing, ", ")
	case KindCanvasNotObject:
		return "canvas must be an object"
	case KindMissingCanvasKeys:
		return "canvas is missing keys: " + strings.Join(e.Missing, ", ")
	case KindUnsupportedDPI:
		return fmt.Sprintf("only dpi=%d is supported, got %v", SupportedDPI, e.Got)
	case KindInvalidCanvasField:
		return fmt.Sprintf("canvas.%s must be a number >= 0", e.Field)
	case KindInvalidOverlay:
		return "overlay must be a non-empty string"
	case KindSlotsNotArray:
		return "slots must be an array"
	case KindSlotEntryNotObject:
		return fmt.Sprintf("slots[%d] must be an object", e.Index)
	case KindSlotMissingKey:
		return fmt.Sprintf("slots[%d].%s is missing", e.Index, e.Field)
	case KindTextsNotArray:
		return "texts must be an array"
	default:
		return "invalid template"
	}
}

// Details returns the error context as flat key/value pairs for logs and
// API error envelopes.
func (e *ValidationError) Details() map[string]any {
	d := map[string]any{"kind": string(e.Kind)}
	switch e.Kind {
	case KindMissingTopLevelKeys, KindMissingCanvasKeys:
		d["missing"] = strings.Join(e.Missing, ",")
	case KindUnsupportedDPI:
		d["got"] = fmt.Sprint(e.Got)
	case KindInvalidCanvasField:
		d["field"] = e.Field
	case KindSlotEntryNotObject:
		d["index"] = e.Index
	case KindSlotMissingKey:
		d["index"] = e.Index
		d["key"] = e.Field
	}
	return d
}

// KindOf returns the validation kind carried by err, or "" if err is not a
// template validation error.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}

// IsValidation reports whether err is a template validation error.
func IsValidation(err error) bool {
	return KindOf(err) != ""
}
