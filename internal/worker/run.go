package worker

import (
	"context"
	"time"

	"photoframe/internal/pkg/logger"
	"photoframe/internal/repositories"
	"photoframe/internal/worker/processor"
	"photoframe/internal/worker/queue"
)

// JobProcessor handles one dequeued export id.
type JobProcessor interface {
	ProcessJob(ctx context.Context, exportID string) error
}

// Queue yields export ids. Pop returns "" when nothing arrived in time.
type Queue interface {
	Pop(ctx context.Context) (string, error)
}

// Run wires the Redis queue and the export processor and consumes jobs
// until ctx is canceled.
func Run(ctx context.Context, d Deps) error {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}

	q := queue.NewRedisQueue(d.RDB, d.QueueName)
	p := processor.New(processor.Deps{
		Exports:   repositories.NewExportRepository(d.Pool),
		Templates: repositories.NewTemplateRepository(d.Pool),
		SP:        d.SP,
		TileSize:  d.TileSize,
		Log:       log,
	})

	return Consume(ctx, q, p, log)
}

// Consume pops ids from q one at a time and hands them to p. Job failures
// are logged and do not stop the loop; queue errors are retried after a
// short pause.
func Consume(ctx context.Context, q Queue, p JobProcessor, log *logger.Logger) error {
	log = log.WithComponent("worker")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker context canceled, stopping")
			return ctx.Err()
		default:
		}

		exportID, err := q.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("worker stopping due to context cancellation")
				return ctx.Err()
			}

			log.Warn("queue pop error, retrying", "error", err.Error())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		if exportID == "" {
			continue
		}

		// A popped job runs to completion even if ctx is canceled meanwhile.
		jobCtx := logger.ContextWithExportID(context.WithoutCancel(ctx), exportID)
		jobLog := log.WithExportID(exportID)

		jobLog.Info("processing export")
		startTime := time.Now()

		if err := p.ProcessJob(jobCtx, exportID); err != nil {
			jobLog.Error("export failed",
				"error", err.Error(),
				"duration_ms", time.Since(startTime).Milliseconds(),
			)
		} else {
			jobLog.Info("export completed",
				"duration_ms", time.Since(startTime).Milliseconds(),
			)
		}
	}
}
