package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"photoframe/internal/models"
)

func TestExportCreate(t *testing.T) {
	db := &fakeDB{row: fakeRow{scan: func(dest ...any) error {
		*dest[0].(*time.Time) = time.Now()
		return nil
	}}}

	e, err := NewExportRepository(db).Create(context.Background(), "4-hor")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.HasPrefix(e.ID, "exp_") || e.Status != models.ExportQueued {
		t.Errorf("unexpected export %+v", e)
	}
	if db.calls[0].args[1] != "4-hor" {
		t.Errorf("unexpected args %v", db.calls[0].args)
	}
}

func TestExportCreateUnknownTemplate(t *testing.T) {
	repo := NewExportRepository(&fakeDB{row: rowErr(pgx.ErrNoRows)})
	if _, err := repo.Create(context.Background(), "gone"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestExportGet(t *testing.T) {
	planKey := "exports/exp_1/plan.json"
	db := &fakeDB{row: fakeRow{scan: func(dest ...any) error {
		*dest[0].(*string) = "exp_1"
		*dest[1].(*string) = "4-hor"
		*dest[2].(*string) = "DONE"
		*dest[3].(*float64) = 1
		*dest[4].(**string) = &planKey
		return nil
	}}}

	e, err := NewExportRepository(db).Get(context.Background(), "exp_1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if e.Status != models.ExportDone || e.PlanKey != planKey || e.ErrorText != "" {
		t.Errorf("unexpected export %+v", e)
	}
	if !e.Status.Final() {
		t.Errorf("DONE must be final")
	}
}

func TestExportTransitions(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := NewExportRepository(db)

	if err := repo.MarkRunning(ctx, "exp_1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetProgress(ctx, "exp_1", 0.5); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkDone(ctx, "exp_1", "exports/exp_1/plan.json"); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkFailed(ctx, "exp_1", strings.Repeat("x", 5000)); err != nil {
		t.Fatal(err)
	}

	if len(db.calls) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(db.calls))
	}
	if !strings.Contains(db.calls[0].sql, "'RUNNING'") || !strings.Contains(db.calls[2].sql, "'DONE'") {
		t.Errorf("unexpected statements %q / %q", db.calls[0].sql, db.calls[2].sql)
	}
	if got := len(db.calls[3].args[1].(string)); got != maxErrorText {
		t.Errorf("error text not truncated, len=%d", got)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"rune boundary", "가나다", 6, "가나"},
		{"inside rune", "가나다", 7, "가나"},
		{"inside first rune", "가나", 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateText(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("result is not valid utf-8: %q", got)
			}
		})
	}
}

func TestExportMarkFailedKeepsUTF8(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := NewExportRepository(db)

	// 1999 ASCII bytes put a 3-byte rune across the limit.
	text := strings.Repeat("x", maxErrorText-1) + "템플릿"
	if err := repo.MarkFailed(context.Background(), "exp_1", text); err != nil {
		t.Fatal(err)
	}
	got := db.calls[0].args[1].(string)
	if len(got) != maxErrorText-1 || !utf8.ValidString(got) {
		t.Errorf("expected %d valid bytes, got len=%d valid=%v", maxErrorText-1, len(got), utf8.ValidString(got))
	}
}

func TestExportUpdateMissingRow(t *testing.T) {
	repo := NewExportRepository(&fakeDB{tag: pgconn.NewCommandTag("UPDATE 0")})
	if err := repo.MarkRunning(context.Background(), "nope"); !errors.Is(err, ErrExportNotFound) {
		t.Errorf("expected ErrExportNotFound, got %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := &fakeDB{}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(db.calls[0].sql, "CREATE TABLE IF NOT EXISTS exports") {
		t.Errorf("schema not executed")
	}
}
