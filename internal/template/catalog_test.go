package template

import (
	"testing"

	"photoframe/internal/pkg/errors"
)

func TestCatalogList(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "a-good.json", validDoc())
	bad := validDoc()
	bad["overlay"] = ""
	writeTemplate(t, dir, "b-bad.json", bad)
	writeTemplate(t, dir, "notes.txt", "ignored")

	entries, err := NewCatalog(dir).List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].File != "a-good.json" || entries[0].ID != "4-hor" || entries[0].Err != nil {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[1].File != "b-bad.json" || KindOf(entries[1].Err) != KindInvalidOverlay {
		t.Errorf("unexpected second entry %+v", entries[1])
	}
}

func TestCatalogListMissingDir(t *testing.T) {
	if _, err := NewCatalog(t.TempDir() + "/nope").List(); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestCatalogGet(t *testing.T) {
	c := NewCatalog(publicTemplates)

	doc, err := c.Get("4-hor")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc.ID() != "4-hor" {
		t.Errorf("expected 4-hor, got %q", doc.ID())
	}

	if _, err := c.Get("does-not-exist"); !errors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}

	for _, id := range []string{"", "..", "../secrets", `a\b`} {
		if _, err := c.Get(id); !errors.IsCode(err, errors.CodeValidation) {
			t.Errorf("id %q: expected VALIDATION_ERROR, got %v", id, err)
		}
	}
}

func TestCatalogGetIDMismatch(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "renamed.json", validDoc())

	_, err := NewCatalog(dir).Get("renamed")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if got := errors.GetFields(err)["file_id"]; got != "4-hor" {
		t.Errorf("expected file_id 4-hor, got %v", got)
	}
}
