package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"leadscore_backend/internal/events"
	leadsrepo "leadscore_backend/internal/leads/repository"
	"leadscore_backend/internal/scheduler"
	scoringrepo "leadscore_backend/internal/scoring/repository"
	scoringservice "leadscore_backend/internal/scoring/service"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/db"
	"leadscore_backend/platform/logger"
)

// The worker consumes rescoring tasks from the asynq queue. The API server
// owns migrations; this process assumes the schema is already in place.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)

	svc := scoringservice.New(
		scoringrepo.New(pool),
		leadsrepo.New(pool),
		eventBus,
		nil, // tasks already run here; no re-enqueue
		cfg,
		log,
	)

	worker, err := scheduler.NewWorker(cfg, svc, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}
