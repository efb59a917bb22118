// Package scoring provides the lead scoring bounded context module.
// This file defines the module that encapsulates all scoring setup and route registration.
package scoring

import (
	"context"

	"leadscore_backend/internal/events"
	apphttp "leadscore_backend/internal/http"
	leadsrepo "leadscore_backend/internal/leads/repository"
	"leadscore_backend/internal/scoring/handler"
	"leadscore_backend/internal/scoring/repository"
	"leadscore_backend/internal/scoring/service"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the scoring bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the scoring module with all its dependencies.
// It subscribes to LeadCaptured so new leads are scored as they arrive.
func NewModule(pool *pgxpool.Pool, leads *leadsrepo.Repository, eventBus events.Bus, scheduler service.RescoreScheduler, settings config.ScoringSettings, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, eventBus, scheduler, settings, log)
	h := handler.New(svc, val)

	eventBus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCaptured)
		if !ok {
			return nil
		}
		if _, err := svc.ScoreLead(ctx, e.LeadID, e.OrganizationID); err != nil {
			log.Error("initial scoring failed", "error", err, "leadId", e.LeadID)
			return err
		}
		return nil
	}))

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scoring"
}

// Service returns the scoring service for cross-module use (worker, backfill).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts scoring routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterProtected(ctx.Protected.Group("/scoring"))
	m.handler.RegisterAdmin(ctx.Admin.Group("/scoring"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
