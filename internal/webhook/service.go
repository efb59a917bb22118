package webhook

import (
	"context"
	"encoding/json"
	"time"

	"leadscore_backend/internal/events"
	leadsrepo "leadscore_backend/internal/leads/repository"
	"leadscore_backend/internal/leads/transport"
	"leadscore_backend/platform/logger"

	"github.com/google/uuid"
)

const duplicateWindow = 60 * time.Second

// LeadCreator is the interface for creating leads. Satisfied by the leads service.
type LeadCreator interface {
	Create(ctx context.Context, req transport.CreateLeadRequest, orgID uuid.UUID) (transport.LeadResponse, error)
}

// FormSubmission represents an inbound form submission via the webhook.
type FormSubmission struct {
	Fields       map[string]string // all form fields as key-value
	SourceDomain string            // origin domain of the form
	APIKeyID     uuid.UUID         // the API key that authenticated this request
}

// FormSubmissionResponse is returned to the caller on success.
type FormSubmissionResponse struct {
	LeadID       *uuid.UUID        `json:"leadId,omitempty"`
	IsIncomplete bool              `json:"isIncomplete"`
	Extracted    map[string]string `json:"extractedFields"`
	Message      string            `json:"message"`
}

// Service handles inbound form submissions and API key management.
type Service struct {
	repo        *Repository
	leadCreator LeadCreator
	leads       *leadsrepo.Repository
	eventBus    events.Bus
	log         *logger.Logger
}

// NewService creates a new webhook service.
func NewService(repo *Repository, leadCreator LeadCreator, leads *leadsrepo.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		leadCreator: leadCreator,
		leads:       leads,
		eventBus:    eventBus,
		log:         log,
	}
}

// ProcessFormSubmission handles an inbound form submission: extract fields,
// dedupe, create the lead, store raw data, and publish the capture event.
func (s *Service) ProcessFormSubmission(ctx context.Context, sub FormSubmission, orgID uuid.UUID) (FormSubmissionResponse, error) {
	extracted := ExtractFields(sub.Fields)
	isIncomplete := extracted.IsIncomplete()

	// Honeypot trip: report success so bots don't adapt, create nothing.
	if extracted.Honeypot != "" {
		s.log.Info("webhook: honeypot tripped, dropping submission", "domain", sub.SourceDomain)
		return FormSubmissionResponse{
			Extracted: map[string]string{},
			Message:   "Lead created successfully",
		}, nil
	}

	// Lead creation needs an email address; everything else can be filled
	// in later by the team.
	if extracted.Email == "" {
		s.log.Warn("webhook: submission without usable email, lead not created", "domain", sub.SourceDomain)
		return FormSubmissionResponse{
			IsIncomplete: true,
			Extracted:    buildExtractedMap(extracted),
			Message:      "Submission missing email address; lead not created",
		}, nil
	}

	// Check for a recent duplicate before creating anything
	dupID, err := s.leads.FindRecentDuplicate(ctx, orgID, extracted.Email, duplicateWindow)
	if err != nil {
		s.log.Error("webhook: failed to check for duplicate lead", "error", err, "domain", sub.SourceDomain)
		// Continue anyway, better to have a duplicate than lose a lead
	} else if dupID != nil {
		s.log.Info("webhook: duplicate lead detected, skipping creation", "leadId", *dupID, "domain", sub.SourceDomain)
		return FormSubmissionResponse{
			LeadID:       dupID,
			IsIncomplete: isIncomplete,
			Extracted:    buildExtractedMap(extracted),
			Message:      "Duplicate lead ignored",
		}, nil
	}

	createReq := buildCreateLeadRequest(extracted, sub.SourceDomain)

	leadResp, err := s.leadCreator.Create(ctx, createReq, orgID)
	if err != nil {
		s.log.Error("webhook: failed to create lead from form submission", "error", err, "domain", sub.SourceDomain)
		return FormSubmissionResponse{}, err
	}

	// Store the raw form data + webhook metadata on the lead
	rawData, _ := json.Marshal(sub.Fields)
	if err := s.repo.UpdateWebhookLeadData(ctx, leadResp.ID, orgID, rawData, sub.SourceDomain, isIncomplete); err != nil {
		s.log.Error("webhook: failed to store raw form data", "error", err, "leadId", leadResp.ID)
		// Non-fatal: don't fail the request
	}

	s.eventBus.Publish(ctx, events.WebhookLeadCaptured{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         leadResp.ID,
		OrganizationID: orgID,
		SourceDomain:   sub.SourceDomain,
		IsIncomplete:   isIncomplete,
	})

	return FormSubmissionResponse{
		LeadID:       &leadResp.ID,
		IsIncomplete: isIncomplete,
		Extracted:    buildExtractedMap(extracted),
		Message:      buildWebhookMessage(isIncomplete),
	}, nil
}

func buildCreateLeadRequest(extracted ExtractedFields, sourceDomain string) transport.CreateLeadRequest {
	fields := map[string]any{}
	for k, v := range extracted.Extra {
		fields[k] = v
	}
	if extracted.Title != "" {
		fields["title"] = extracted.Title
	}
	if extracted.Message != "" {
		fields["message"] = extracted.Message
	}

	return transport.CreateLeadRequest{
		Email:   extracted.Email,
		Name:    extracted.Name,
		Company: extracted.Company,
		Phone:   extracted.Phone,
		Source:  "webhook:" + sourceDomain,
		Fields:  fields,
		UTM:     extracted.UTM,
	}
}

func buildExtractedMap(extracted ExtractedFields) map[string]string {
	result := map[string]string{}
	if extracted.Name != "" {
		result["name"] = extracted.Name
	}
	if extracted.Email != "" {
		result["email"] = extracted.Email
	}
	if extracted.Company != "" {
		result["company"] = extracted.Company
	}
	if extracted.Phone != "" {
		result["phone"] = extracted.Phone
	}
	if extracted.Title != "" {
		result["title"] = extracted.Title
	}
	if extracted.Message != "" {
		result["message"] = extracted.Message
	}
	return result
}

func buildWebhookMessage(isIncomplete bool) string {
	if isIncomplete {
		return "Lead created with incomplete data, manual review recommended"
	}
	return "Lead created successfully"
}
