package handlers

import (
	"context"
	"net/http"
	"time"

	"photoframe/internal/httpkit"
)

// Health reports liveness; ?deep=true also checks postgres, redis and
// storage.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	health := map[string]any{
		"status":  "ok",
		"service": "photoframe-api",
	}

	if r.URL.Query().Get("deep") == "true" {
		checks := h.deepHealthCheck(ctx)
		health["checks"] = checks

		for _, check := range checks {
			if s := check["status"]; s != "ok" && s != "disabled" {
				health["status"] = "degraded"
				log.Warn("health check degraded", "checks", checks)
				break
			}
		}
	}

	httpkit.WriteJSON(w, http.StatusOK, health)
}

func (h *Handler) deepHealthCheck(ctx context.Context) map[string]map[string]any {
	return map[string]map[string]any{
		"postgres": h.checkPostgres(ctx),
		"redis":    h.checkRedis(ctx),
		"storage":  h.checkStorage(ctx),
		"catalog":  h.checkCatalog(),
	}
}

func (h *Handler) checkPostgres(ctx context.Context) map[string]any {
	if h.pool == nil {
		return map[string]any{"status": "disabled"}
	}
	start := time.Now()
	result := map[string]any{"status": "ok"}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.pool.Ping(checkCtx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	} else if _, err := h.pool.Exec(checkCtx, `SELECT 1 FROM templates LIMIT 1`); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
		if httpkit.IsUndefinedTable(err) {
			result["error"] = "schema not migrated"
		}
	} else {
		stats := h.pool.Stat()
		result["total_conns"] = stats.TotalConns()
		result["idle_conns"] = stats.IdleConns()
		result["acquired_conns"] = stats.AcquiredConns()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}

func (h *Handler) checkRedis(ctx context.Context) map[string]any {
	if h.rdb == nil {
		return map[string]any{"status": "disabled"}
	}
	start := time.Now()
	result := map[string]any{"status": "ok"}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.rdb.Ping(checkCtx).Err(); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}

func (h *Handler) checkStorage(_ context.Context) map[string]any {
	if h.sp == nil {
		return map[string]any{"status": "disabled"}
	}
	return map[string]any{
		"status":   "ok",
		"provider": h.sp.Provider(),
	}
}

func (h *Handler) checkCatalog() map[string]any {
	if h.catalog == nil {
		return map[string]any{"status": "disabled"}
	}
	entries, err := h.catalog.List()
	if err != nil {
		return map[string]any{"status": "error", "error": err.Error()}
	}
	invalid := 0
	for _, e := range entries {
		if e.Err != nil {
			invalid++
		}
	}
	result := map[string]any{"status": "ok", "templates": len(entries), "invalid": invalid}
	if invalid > 0 {
		result["status"] = "degraded"
	}
	return result
}
