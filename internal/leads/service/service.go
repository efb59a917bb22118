// Package service implements lead management use cases.
package service

import (
	"context"
	"errors"
	"strings"

	"leadscore_backend/internal/events"
	"leadscore_backend/internal/leads/repository"
	"leadscore_backend/internal/leads/transport"
	"leadscore_backend/platform/apperr"
	"leadscore_backend/platform/logger"
	"leadscore_backend/platform/phone"

	"github.com/google/uuid"
)

// Service handles lead capture and retrieval.
type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create captures a new lead and publishes LeadCaptured so the scoring
// module picks it up asynchronously.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, orgID uuid.UUID) (transport.LeadResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return transport.LeadResponse{}, apperr.Validation("email is required")
	}

	normalizedPhone := phone.NormalizeE164(req.Phone)

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		OrganizationID: orgID,
		Email:          email,
		Name:           strings.TrimSpace(req.Name),
		Company:        strings.TrimSpace(req.Company),
		Domain:         domainFromEmail(email),
		Phone:          normalizedPhone,
		Source:         strings.TrimSpace(req.Source),
		Fields:         req.Fields,
		UTM:            req.UTM,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if err := s.repo.CreateTimelineEvent(ctx, repository.CreateTimelineEventParams{
		LeadID:         lead.ID,
		OrganizationID: orgID,
		ActorType:      repository.ActorTypeSystem,
		EventType:      repository.TimelineEventLeadCaptured,
		Title:          "Lead captured",
		Metadata: map[string]any{
			"source": lead.Source,
		},
	}); err != nil {
		s.log.Error("failed to record lead capture timeline event", "error", err, "leadId", lead.ID)
	}

	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		OrganizationID: orgID,
		Source:         lead.Source,
	})

	return toResponse(lead), nil
}

// GetByID retrieves a single lead.
func (s *Service) GetByID(ctx context.Context, leadID, orgID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID, orgID)
	if err != nil {
		return transport.LeadResponse{}, mapRepoErr(err)
	}
	return toResponse(lead), nil
}

// List returns a filtered, paged lead listing.
func (s *Service) List(ctx context.Context, orgID uuid.UUID, req transport.ListLeadsRequest) (transport.ListLeadsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	leads, total, err := s.repo.List(ctx, orgID, repository.ListFilter{
		Band:   req.Band,
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: req.Offset,
	})
	if err != nil {
		return transport.ListLeadsResponse{}, err
	}

	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, toResponse(lead))
	}
	return transport.ListLeadsResponse{
		Leads:  out,
		Total:  total,
		Limit:  limit,
		Offset: req.Offset,
	}, nil
}

// Timeline returns a lead's audit trail.
func (s *Service) Timeline(ctx context.Context, leadID, orgID uuid.UUID) ([]transport.TimelineEventResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID, orgID); err != nil {
		return nil, mapRepoErr(err)
	}

	entries, err := s.repo.ListTimelineEvents(ctx, leadID, orgID, 100)
	if err != nil {
		return nil, err
	}

	out := make([]transport.TimelineEventResponse, 0, len(entries))
	for _, entry := range entries {
		resp := transport.TimelineEventResponse{
			ID:        entry.ID,
			LeadID:    entry.LeadID,
			ActorType: entry.ActorType,
			EventType: entry.EventType,
			Title:     entry.Title,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt,
		}
		if entry.Summary != nil {
			resp.Summary = *entry.Summary
		}
		out = append(out, resp)
	}
	return out, nil
}

func domainFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrLeadNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}

func toResponse(lead repository.Lead) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:        lead.ID,
		Email:     lead.Email,
		Name:      lead.Name,
		Company:   lead.Company,
		Domain:    lead.Domain,
		Phone:     lead.Phone,
		Source:    lead.Source,
		Fields:    lead.Fields,
		UTM:       lead.UTM,
		Score:     lead.Score,
		ScoreTags: lead.ScoreTags,
		ScoredAt:  lead.ScoredAt,
		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}
	if lead.Band != nil {
		resp.Band = *lead.Band
	}
	return resp
}
