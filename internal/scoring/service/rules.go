package service

import (
	"context"
	"errors"

	"leadscore_backend/internal/scoring/repository"
	"leadscore_backend/internal/scoring/transport"
	"leadscore_backend/platform/apperr"

	"github.com/google/uuid"
)

// ListRules returns all rules for the organization, ordered, including
// disabled ones so the UI can show the full rule set.
func (s *Service) ListRules(ctx context.Context, orgID uuid.UUID) ([]transport.RuleResponse, error) {
	rules, err := s.repo.ListRules(ctx, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toRuleResponse(rule))
	}
	return out, nil
}

// CreateRule validates and stores a new rule, then triggers a rescore.
func (s *Service) CreateRule(ctx context.Context, orgID, userID uuid.UUID, req transport.CreateRuleRequest) (transport.RuleResponse, error) {
	if err := ValidateDefinition(req.Type, req.Definition); err != nil {
		return transport.RuleResponse{}, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rule, err := s.repo.CreateRule(ctx, repository.CreateRuleParams{
		OrganizationID: orgID,
		Name:           req.Name,
		Type:           req.Type,
		Enabled:        enabled,
		Order:          req.Order,
		Definition:     req.Definition,
	})
	if err != nil {
		return transport.RuleResponse{}, err
	}

	s.notifyConfigChanged(ctx, orgID, userID, "rule created")
	return toRuleResponse(rule), nil
}

// UpdateRule applies a partial update to a rule, then triggers a rescore.
func (s *Service) UpdateRule(ctx context.Context, ruleID, orgID, userID uuid.UUID, req transport.UpdateRuleRequest) (transport.RuleResponse, error) {
	existing, err := s.repo.GetRule(ctx, ruleID, orgID)
	if err != nil {
		return transport.RuleResponse{}, mapRuleErr(err)
	}

	if len(req.Definition) > 0 {
		if err := ValidateDefinition(existing.Type, req.Definition); err != nil {
			return transport.RuleResponse{}, err
		}
	}

	rule, err := s.repo.UpdateRule(ctx, ruleID, orgID, repository.UpdateRuleParams{
		Name:       req.Name,
		Enabled:    req.Enabled,
		Order:      req.Order,
		Definition: req.Definition,
	})
	if err != nil {
		return transport.RuleResponse{}, mapRuleErr(err)
	}

	s.notifyConfigChanged(ctx, orgID, userID, "rule updated")
	return toRuleResponse(rule), nil
}

// SetRuleEnabled toggles a rule without touching its definition.
func (s *Service) SetRuleEnabled(ctx context.Context, ruleID, orgID, userID uuid.UUID, enabled bool) (transport.RuleResponse, error) {
	rule, err := s.repo.UpdateRule(ctx, ruleID, orgID, repository.UpdateRuleParams{Enabled: &enabled})
	if err != nil {
		return transport.RuleResponse{}, mapRuleErr(err)
	}

	reason := "rule disabled"
	if enabled {
		reason = "rule enabled"
	}
	s.notifyConfigChanged(ctx, orgID, userID, reason)
	return toRuleResponse(rule), nil
}

// DeleteRule removes a rule, then triggers a rescore.
func (s *Service) DeleteRule(ctx context.Context, ruleID, orgID, userID uuid.UUID) error {
	if err := s.repo.DeleteRule(ctx, ruleID, orgID); err != nil {
		return mapRuleErr(err)
	}
	s.notifyConfigChanged(ctx, orgID, userID, "rule deleted")
	return nil
}

func mapRuleErr(err error) error {
	if errors.Is(err, repository.ErrRuleNotFound) {
		return apperr.NotFound("scoring rule not found")
	}
	return err
}

func toRuleResponse(rule repository.StoredRule) transport.RuleResponse {
	return transport.RuleResponse{
		ID:         rule.ID,
		Name:       rule.Name,
		Type:       rule.Type,
		Enabled:    rule.Enabled,
		Order:      rule.Order,
		Definition: rule.Definition,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}
