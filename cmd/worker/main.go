package main

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"photoframe/internal/config"
	"photoframe/internal/pkg/logger"
	"photoframe/internal/pkg/shutdown"
	"photoframe/internal/storage"
	"photoframe/internal/worker"
)

func main() {
	cfg, cfgErr := config.Load()

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "photoframe-worker",
		AddSource:   cfg.Log.Source,
	})
	if cfgErr != nil {
		log.LogFatal("invalid configuration", cfgErr)
	}

	shutdownMgr := shutdown.NewManager(log, 30*time.Second)
	ctx, stop := context.WithCancel(context.Background())

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.LogFatal("failed to connect to PostgreSQL", err)
	}
	shutdownMgr.RegisterSimple("postgres", pool.Close)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	shutdownMgr.Register("redis", func(ctx context.Context) error {
		return rdb.Close()
	})

	sp, err := storage.NewProvider(ctx, cfg.Storage)
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("photoframe worker started",
			"queue", cfg.ExportQueue,
			"provider", sp.Provider(),
			"tile_size", cfg.ExportTileSize,
		)
		err := worker.Run(ctx, worker.Deps{
			Pool:      pool,
			RDB:       rdb,
			QueueName: cfg.ExportQueue,
			SP:        sp,
			TileSize:  cfg.ExportTileSize,
			Log:       log,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.LogFatal("worker stopped", err)
		}
	}()

	// Stop popping and let the current job finish before the pool and
	// client close.
	shutdownMgr.Register("worker", func(ctx context.Context) error {
		stop()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	shutdownMgr.Wait()
}
