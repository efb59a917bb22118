// Package service orchestrates scoring: loading configuration snapshots,
// running the engine, persisting results, and keeping stored scores in
// step with configuration changes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadscore_backend/internal/events"
	leadsrepo "leadscore_backend/internal/leads/repository"
	"leadscore_backend/internal/scoring/defaults"
	"leadscore_backend/internal/scoring/engine"
	"leadscore_backend/internal/scoring/repository"
	"leadscore_backend/internal/scoring/transport"
	"leadscore_backend/platform/apperr"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
)

// RescoreScheduler enqueues background rescoring work. Satisfied by
// scheduler.Client; nil when Redis is not configured.
type RescoreScheduler interface {
	EnqueueLeadRescore(ctx context.Context, leadID, orgID uuid.UUID) error
	EnqueueOrganizationRescore(ctx context.Context, orgID uuid.UUID) error
}

// Service runs the scoring pipeline and manages configuration and rules.
type Service struct {
	repo      *repository.Repository
	leads     *leadsrepo.Repository
	bus       events.Bus
	scheduler RescoreScheduler
	settings  config.ScoringSettings
	log       *logger.Logger
}

// New creates a new scoring service.
func New(repo *repository.Repository, leads *leadsrepo.Repository, bus events.Bus, scheduler RescoreScheduler, settings config.ScoringSettings, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		leads:     leads,
		bus:       bus,
		scheduler: scheduler,
		settings:  settings,
		log:       log,
	}
}

// snapshot loads the effective configuration, lists and rules for an
// organization. Organizations without a stored config run on the embedded
// defaults; stored configs are normalized so no sub-table is missing.
func (s *Service) snapshot(ctx context.Context, orgID uuid.UUID) (*engine.Config, engine.Lists, []engine.Rule, error) {
	cfg := defaults.Config()
	lists := defaults.Lists()

	stored, err := s.repo.GetConfig(ctx, orgID)
	switch {
	case errors.Is(err, repository.ErrConfigNotFound):
		// defaults apply
	case err != nil:
		return nil, engine.Lists{}, nil, err
	default:
		cfg = defaults.Normalize(&engine.Config{
			Weights:    stored.Weights,
			Negative:   stored.Negative,
			Enrichment: stored.Enrichment,
			Bands:      stored.Bands,
		})
		lists = effectiveLists(stored.Lists)
	}

	storedRules, err := s.repo.ListRules(ctx, orgID)
	if err != nil {
		return nil, engine.Lists{}, nil, err
	}

	rules := make([]engine.Rule, 0, len(storedRules))
	for _, rule := range storedRules {
		rules = append(rules, engine.Rule{
			ID:         rule.ID,
			TeamID:     rule.OrganizationID,
			Type:       engine.RuleType(rule.Type),
			Enabled:    rule.Enabled,
			Order:      rule.Order,
			Definition: rule.Definition,
		})
	}
	return cfg, lists, rules, nil
}

// effectiveLists builds engine lists from a stored override: a non-empty
// stored list replaces the default for that category, competitor domains
// are always taken from storage since the default set is empty.
func effectiveLists(stored repository.StoredLists) engine.Lists {
	base := defaults.Lists()
	merged := engine.NewLists(stored.CompetitorDomains, stored.FreeEmailProviders, stored.SpamKeywords)

	if len(merged.FreeEmailProviders) == 0 {
		merged.FreeEmailProviders = base.FreeEmailProviders
	}
	if len(merged.SpamKeywords) == 0 {
		merged.SpamKeywords = base.SpamKeywords
	}
	return merged
}

// ScoreLead runs the full pipeline for a stored lead and persists the
// result: score columns, a timeline entry, and a LeadScored event.
func (s *Service) ScoreLead(ctx context.Context, leadID, orgID uuid.UUID) (transport.EvaluationResponse, error) {
	lead, err := s.leads.GetByID(ctx, leadID, orgID)
	if err != nil {
		if errors.Is(err, leadsrepo.ErrLeadNotFound) {
			return transport.EvaluationResponse{}, apperr.NotFound("lead not found")
		}
		return transport.EvaluationResponse{}, err
	}

	cfg, lists, rules, err := s.snapshot(ctx, orgID)
	if err != nil {
		return transport.EvaluationResponse{}, err
	}

	evaluation := engine.Evaluate(toEngineLead(lead), cfg, lists, rules)
	now := time.Now().UTC()

	if err := s.leads.UpdateScore(ctx, leadsrepo.UpdateScoreParams{
		LeadID:         leadID,
		OrganizationID: orgID,
		Score:          evaluation.Score,
		Band:           string(evaluation.Band),
		Tags:           evaluation.Tags,
		BaseScore:      evaluation.BaseScore,
		Components:     evaluation.Components,
		Trace:          evaluation.Trace,
		ScoredAt:       now,
	}); err != nil {
		return transport.EvaluationResponse{}, err
	}

	summary := scoreSummary(evaluation)
	if err := s.leads.CreateTimelineEvent(ctx, leadsrepo.CreateTimelineEventParams{
		LeadID:         leadID,
		OrganizationID: orgID,
		ActorType:      leadsrepo.ActorTypeSystem,
		EventType:      leadsrepo.TimelineEventLeadScored,
		Title:          "Lead scored",
		Summary:        &summary,
		Metadata: map[string]any{
			"score":       evaluation.Score,
			"band":        string(evaluation.Band),
			"baseScore":   evaluation.BaseScore,
			"tags":        evaluation.Tags,
			"trace":       evaluation.Trace,
			"adjustments": evaluation.Adjustments,
		},
	}); err != nil {
		s.log.Error("failed to record scoring timeline event", "error", err, "leadId", leadID)
	}

	previousBand := ""
	if lead.Band != nil {
		previousBand = *lead.Band
	}
	s.bus.Publish(ctx, events.LeadScored{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         leadID,
		OrganizationID: orgID,
		Score:          evaluation.Score,
		Band:           string(evaluation.Band),
		PreviousBand:   previousBand,
		Tags:           evaluation.Tags,
	})

	s.log.LeadScored(leadID.String(), evaluation.Score, string(evaluation.Band), len(rules))
	return toEvaluationResponse(evaluation), nil
}

// Preview scores an ad-hoc lead against the organization's live
// configuration without touching any stored state.
func (s *Service) Preview(ctx context.Context, orgID uuid.UUID, req transport.PreviewRequest) (transport.EvaluationResponse, error) {
	cfg, lists, rules, err := s.snapshot(ctx, orgID)
	if err != nil {
		return transport.EvaluationResponse{}, err
	}

	lead := &engine.Lead{
		Email:   req.Email,
		Name:    req.Name,
		Company: req.Company,
		Domain:  domainFromEmail(req.Email),
		Fields:  req.Fields,
		UTM:     req.UTM,
	}
	return toEvaluationResponse(engine.Evaluate(lead, cfg, lists, rules)), nil
}

// RescoreOrganization re-runs scoring for every lead in the organization.
// Called from the background worker after configuration changes.
func (s *Service) RescoreOrganization(ctx context.Context, orgID uuid.UUID) (int, error) {
	ids, err := s.leads.ListIDs(ctx, orgID)
	if err != nil {
		return 0, err
	}

	rescored := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return rescored, ctx.Err()
		}
		if _, err := s.ScoreLead(ctx, id, orgID); err != nil {
			s.log.Error("rescore failed for lead", "error", err, "leadId", id, "organizationId", orgID)
			continue
		}
		rescored++
	}
	return rescored, nil
}

// RequestLeadRescore enqueues a single-lead rescore, falling back to an
// inline run when no scheduler is configured.
func (s *Service) RequestLeadRescore(ctx context.Context, leadID, orgID uuid.UUID) (transport.RescoreResponse, error) {
	if s.scheduler != nil {
		err := s.scheduler.EnqueueLeadRescore(ctx, leadID, orgID)
		if err == nil {
			return transport.RescoreResponse{Enqueued: true, Message: "rescore enqueued"}, nil
		}
		s.log.Error("failed to enqueue lead rescore, scoring inline", "error", err, "leadId", leadID)
	}

	if _, err := s.ScoreLead(ctx, leadID, orgID); err != nil {
		return transport.RescoreResponse{}, err
	}
	return transport.RescoreResponse{Enqueued: false, Message: "lead rescored"}, nil
}

func toEngineLead(lead leadsrepo.Lead) *engine.Lead {
	return &engine.Lead{
		Email:   lead.Email,
		Name:    lead.Name,
		Company: lead.Company,
		Domain:  lead.Domain,
		Fields:  lead.Fields,
		UTM:     lead.UTM,
	}
}

func toEvaluationResponse(evaluation engine.Evaluation) transport.EvaluationResponse {
	return transport.EvaluationResponse{
		Score:       evaluation.Score,
		Band:        string(evaluation.Band),
		BaseScore:   evaluation.BaseScore,
		Components:  evaluation.Components,
		Tags:        evaluation.Tags,
		Trace:       evaluation.Trace,
		Adjustments: evaluation.Adjustments,
	}
}

func scoreSummary(evaluation engine.Evaluation) string {
	return fmt.Sprintf("Scored %d (%s)", evaluation.Score, evaluation.Band)
}

func domainFromEmail(email string) string {
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			if i == len(email)-1 {
				return ""
			}
			return email[i+1:]
		}
	}
	return ""
}
