package scheduler

import (
	"context"
	"fmt"

	"leadscore_backend/internal/scoring/transport"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// LeadScorer is the scoring operations the worker needs. Satisfied by the
// scoring service.
type LeadScorer interface {
	ScoreLead(ctx context.Context, leadID, orgID uuid.UUID) (transport.EvaluationResponse, error)
	RescoreOrganization(ctx context.Context, orgID uuid.UUID) (int, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	scorer LeadScorer
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, scorer LeadScorer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		scorer: scorer,
		log:    log,
	}

	mux.HandleFunc(TaskRescoreLead, w.handleRescoreLead)
	mux.HandleFunc(TaskRescoreOrganization, w.handleRescoreOrganization)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRescoreLead(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRescoreLeadPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return err
	}

	_, err = w.scorer.ScoreLead(ctx, leadID, orgID)
	return err
}

func (w *Worker) handleRescoreOrganization(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRescoreOrganizationPayload(task)
	if err != nil {
		return err
	}

	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return err
	}

	count, err := w.scorer.RescoreOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	w.log.Info("organization rescore complete", "organizationId", orgID, "leads", count)
	return nil
}
