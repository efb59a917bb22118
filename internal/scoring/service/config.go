package service

import (
	"context"
	"errors"
	"sort"

	"leadscore_backend/internal/events"
	"leadscore_backend/internal/scoring/defaults"
	"leadscore_backend/internal/scoring/engine"
	"leadscore_backend/internal/scoring/repository"
	"leadscore_backend/internal/scoring/transport"

	"github.com/google/uuid"
)

// GetConfig returns the organization's effective scoring configuration.
// Organizations without a stored config see the embedded defaults.
func (s *Service) GetConfig(ctx context.Context, orgID uuid.UUID) (transport.ConfigResponse, error) {
	stored, err := s.repo.GetConfig(ctx, orgID)
	if errors.Is(err, repository.ErrConfigNotFound) {
		cfg := defaults.Config()
		lists := defaults.Lists()
		return transport.ConfigResponse{
			Weights:    cfg.Weights,
			Negative:   cfg.Negative,
			Enrichment: cfg.Enrichment,
			Bands:      cfg.Bands,
			Lists: transport.ListsPayload{
				CompetitorDomains:  setToSlice(lists.CompetitorDomains),
				FreeEmailProviders: setToSlice(lists.FreeEmailProviders),
				SpamKeywords:       lists.SpamKeywords,
			},
		}, nil
	}
	if err != nil {
		return transport.ConfigResponse{}, err
	}

	cfg := defaults.Normalize(&engine.Config{
		Weights:    stored.Weights,
		Negative:   stored.Negative,
		Enrichment: stored.Enrichment,
		Bands:      stored.Bands,
	})
	updatedAt := stored.UpdatedAt
	return transport.ConfigResponse{
		Weights:    cfg.Weights,
		Negative:   cfg.Negative,
		Enrichment: cfg.Enrichment,
		Bands:      cfg.Bands,
		Lists: transport.ListsPayload{
			CompetitorDomains:  emptyIfNil(stored.Lists.CompetitorDomains),
			FreeEmailProviders: emptyIfNil(stored.Lists.FreeEmailProviders),
			SpamKeywords:       emptyIfNil(stored.Lists.SpamKeywords),
		},
		UpdatedAt: &updatedAt,
	}, nil
}

// UpdateConfig replaces the organization's scoring configuration. Missing
// sub-tables are filled from the embedded defaults before persisting, so
// stored configs are always complete. Publishes ScoringConfigChanged and,
// when enabled, enqueues an organization-wide rescore.
func (s *Service) UpdateConfig(ctx context.Context, orgID, userID uuid.UUID, req transport.UpdateConfigRequest) (transport.ConfigResponse, error) {
	cfg := defaults.Normalize(&engine.Config{
		Weights:    req.Weights,
		Negative:   req.Negative,
		Enrichment: req.Enrichment,
		Bands:      req.Bands,
	})
	if err := ValidateBands(cfg.Bands); err != nil {
		return transport.ConfigResponse{}, err
	}

	saved, err := s.repo.UpsertConfig(ctx, repository.StoredConfig{
		OrganizationID: orgID,
		Weights:        cfg.Weights,
		Negative:       cfg.Negative,
		Enrichment:     cfg.Enrichment,
		Bands:          cfg.Bands,
		Lists: repository.StoredLists{
			CompetitorDomains:  emptyIfNil(req.Lists.CompetitorDomains),
			FreeEmailProviders: emptyIfNil(req.Lists.FreeEmailProviders),
			SpamKeywords:       emptyIfNil(req.Lists.SpamKeywords),
		},
		UpdatedBy: &userID,
	})
	if err != nil {
		return transport.ConfigResponse{}, err
	}

	s.notifyConfigChanged(ctx, orgID, userID, "config updated")

	updatedAt := saved.UpdatedAt
	return transport.ConfigResponse{
		Weights:    saved.Weights,
		Negative:   saved.Negative,
		Enrichment: saved.Enrichment,
		Bands:      saved.Bands,
		Lists: transport.ListsPayload{
			CompetitorDomains:  emptyIfNil(saved.Lists.CompetitorDomains),
			FreeEmailProviders: emptyIfNil(saved.Lists.FreeEmailProviders),
			SpamKeywords:       emptyIfNil(saved.Lists.SpamKeywords),
		},
		UpdatedAt: &updatedAt,
	}, nil
}

// notifyConfigChanged publishes the change event and schedules the
// organization-wide rescore that keeps stored scores consistent with the
// active configuration.
func (s *Service) notifyConfigChanged(ctx context.Context, orgID, userID uuid.UUID, reason string) {
	s.bus.Publish(ctx, events.ScoringConfigChanged{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: orgID,
		ChangedBy:      userID,
		Reason:         reason,
	})

	if s.settings != nil && !s.settings.GetRescoreOnRuleChange() {
		return
	}
	if s.scheduler == nil {
		s.log.Warn("scheduler not configured; stored scores will drift until rescored", "organizationId", orgID)
		return
	}
	if err := s.scheduler.EnqueueOrganizationRescore(ctx, orgID); err != nil {
		s.log.Error("failed to enqueue organization rescore", "error", err, "organizationId", orgID)
	}
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
