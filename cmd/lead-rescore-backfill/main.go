package main

import (
	"context"
	"sync/atomic"

	"leadscore_backend/internal/events"
	leadsrepo "leadscore_backend/internal/leads/repository"
	scoringrepo "leadscore_backend/internal/scoring/repository"
	scoringservice "leadscore_backend/internal/scoring/service"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/db"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const scoreConcurrency = 8

// One-off backfill: rescores every lead in every organization against the
// current configuration. Run after bulk imports or scoring model changes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead rescore backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	leads := leadsrepo.New(pool)
	svc := scoringservice.New(scoringrepo.New(pool), leads, eventBus, nil, cfg, log)

	orgIDs, err := listOrganizations(ctx, pool)
	if err != nil {
		log.Error("failed to list organizations", "error", err)
		panic("failed to list organizations: " + err.Error())
	}

	var processed, failed atomic.Int64

	for _, orgID := range orgIDs {
		leadIDs, err := leads.ListIDs(ctx, orgID)
		if err != nil {
			log.Error("failed to list leads", "error", err, "organizationId", orgID)
			continue
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(scoreConcurrency)
		for _, leadID := range leadIDs {
			g.Go(func() error {
				if _, err := svc.ScoreLead(gctx, leadID, orgID); err != nil {
					failed.Add(1)
					log.Error("failed to rescore lead", "error", err, "leadId", leadID, "organizationId", orgID)
					return nil // keep going, a single bad lead should not stop the sweep
				}
				processed.Add(1)
				return nil
			})
		}
		_ = g.Wait()

		log.Info("organization rescored", "organizationId", orgID, "leads", len(leadIDs))
	}

	log.Info("lead rescore backfill completed", "processed", processed.Load(), "failed", failed.Load())
}

func listOrganizations(ctx context.Context, pool *pgxpool.Pool) ([]uuid.UUID, error) {
	rows, err := pool.Query(ctx, `SELECT DISTINCT organization_id FROM leads ORDER BY organization_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
