// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Config holds the settings shared by the api and worker binaries.
type Config struct {
	HTTPPort       string
	DatabaseURL    string
	RedisAddr      string
	TemplatesDir   string
	ExportQueue    string
	ExportTileSize int
	AllowedOrigins []string

	Storage StorageConfig
	Log     LogConfig
}

type StorageConfig struct {
	// Provider is localfs or gdrive.
	Provider  string
	LocalRoot string

	GDriveClientID     string
	GDriveClientSecret string
	GDriveRefreshToken string
	GDriveFolderID     string
}

type LogConfig struct {
	Level  string
	Format string
	Source bool
}

// Load reads the environment. Required variables that are unset are
// reported together in one error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       Env("HTTP_PORT", "8080"),
		DatabaseURL:    Env("DATABASE_URL", ""),
		RedisAddr:      Env("REDIS_ADDR", ""),
		TemplatesDir:   Env("TEMPLATES_DIR", "public/templates"),
		ExportQueue:    Env("EXPORT_QUEUE_NAME", "photoframe:exports"),
		ExportTileSize: IntEnv("EXPORT_TILE_SIZE", 4096),
		AllowedOrigins: CSVEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		Storage: StorageConfig{
			Provider:           Env("STORAGE_PROVIDER", "localfs"),
			LocalRoot:          Env("STORAGE_LOCAL_ROOT", "/data"),
			GDriveClientID:     Env("GDRIVE_CLIENT_ID", ""),
			GDriveClientSecret: Env("GDRIVE_CLIENT_SECRET", ""),
			GDriveRefreshToken: Env("GDRIVE_REFRESH_TOKEN", ""),
			GDriveFolderID:     Env("GDRIVE_FOLDER_ID", ""),
		},
		Log: LogConfig{
			Level:  Env("LOG_LEVEL", "info"),
			Format: Env("LOG_FORMAT", "json"),
			Source: BoolEnv("LOG_SOURCE", false),
		},
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if cfg.Storage.Provider == "gdrive" {
		for k, v := range map[string]string{
			"GDRIVE_CLIENT_ID":     cfg.Storage.GDriveClientID,
			"GDRIVE_CLIENT_SECRET": cfg.Storage.GDriveClientSecret,
			"GDRIVE_REFRESH_TOKEN": cfg.Storage.GDriveRefreshToken,
		} {
			if v == "" {
				missing = append(missing, k)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if cfg.ExportTileSize <= 0 {
		return cfg, fmt.Errorf("EXPORT_TILE_SIZE must be > 0, got %d", cfg.ExportTileSize)
	}
	return cfg, nil
}

// Env returns the trimmed value of k, or def when unset or blank.
func Env(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

// BoolEnv parses k with strconv.ParseBool, falling back to def.
func BoolEnv(k string, def bool) bool {
	b, err := strconv.ParseBool(Env(k, ""))
	if err != nil {
		return def
	}
	return b
}

// IntEnv parses k as a base-10 int, falling back to def.
func IntEnv(k string, def int) int {
	n, err := strconv.Atoi(Env(k, ""))
	if err != nil {
		return def
	}
	return n
}

// CSVEnv splits k on commas, dropping blanks. An empty result means def.
func CSVEnv(k string, def []string) []string {
	var out []string
	for _, p := range strings.Split(Env(k, ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
