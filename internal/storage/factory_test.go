package storage

import (
	"context"
	"testing"

	"photoframe/internal/config"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	sp, err := NewProvider(ctx, config.StorageConfig{Provider: "localfs", LocalRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Provider() != "localfs" {
		t.Errorf("expected localfs, got %s", sp.Provider())
	}

	sp, err = NewProvider(ctx, config.StorageConfig{
		Provider:           "gdrive",
		GDriveClientID:     "id",
		GDriveClientSecret: "secret",
		GDriveRefreshToken: "refresh",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Provider() != "gdrive" {
		t.Errorf("expected gdrive, got %s", sp.Provider())
	}

	if _, err := NewProvider(ctx, config.StorageConfig{Provider: "s3"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewProvider(ctx, config.StorageConfig{Provider: "localfs"}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestGDriveOAuthConfig(t *testing.T) {
	conf := GDriveOAuthConfig(config.StorageConfig{GDriveClientID: "id", GDriveClientSecret: "secret"}, "http://127.0.0.1:9999/callback")

	if conf.ClientID != "id" || conf.RedirectURL != "http://127.0.0.1:9999/callback" {
		t.Errorf("unexpected config %+v", conf)
	}
	if len(conf.Scopes) != 1 || conf.Scopes[0] != "https://www.googleapis.com/auth/drive.file" {
		t.Errorf("expected drive.file scope only, got %v", conf.Scopes)
	}
}
