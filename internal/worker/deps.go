package worker

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"photoframe/internal/pkg/logger"
	"photoframe/internal/ports"
)

type Deps struct {
	Pool      *pgxpool.Pool
	RDB       *redis.Client
	QueueName string
	SP        ports.StorageProvider
	// TileSize is the maximum export tile edge in px.
	TileSize int
	Log      *logger.Logger
}
