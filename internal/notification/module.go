// Package notification provides event handlers for sending alerts in
// response to domain events. It subscribes to scoring events and inverts
// the dependency: the scoring module does not know about email providers.
package notification

import (
	"context"

	"leadscore_backend/internal/email"
	"leadscore_backend/internal/events"
	leadsrepo "leadscore_backend/internal/leads/repository"
	"leadscore_backend/platform/config"
	"leadscore_backend/platform/logger"
)

const bandHigh = "HIGH"

// Module wires scoring events to outbound alerts.
type Module struct {
	sender    email.Sender
	leads     *leadsrepo.Repository
	recipient string
	log       *logger.Logger
}

// NewModule creates the notification module and subscribes it to the event
// bus. The sender may be nil when email is disabled; alerts are then logged
// and skipped.
func NewModule(sender email.Sender, leads *leadsrepo.Repository, cfg config.EmailConfig, eventBus events.Bus, log *logger.Logger) *Module {
	m := &Module{
		sender:    sender,
		leads:     leads,
		recipient: cfg.GetAlertRecipient(),
		log:       log,
	}

	eventBus.Subscribe(events.LeadScored{}.EventName(), events.HandlerFunc(m.handleLeadScored))

	return m
}

// handleLeadScored sends an alert email when a lead enters the HIGH band.
// Leads already in HIGH before this scoring run do not re-alert.
func (m *Module) handleLeadScored(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadScored)
	if !ok {
		return nil
	}

	if e.Band != bandHigh || e.PreviousBand == bandHigh {
		return nil
	}

	if m.sender == nil || m.recipient == "" {
		m.log.Info("high-value lead alert skipped, email not configured", "leadId", e.LeadID, "score", e.Score)
		return nil
	}

	lead, err := m.leads.GetByID(ctx, e.LeadID, e.OrganizationID)
	if err != nil {
		m.log.Error("failed to load lead for alert", "error", err, "leadId", e.LeadID)
		return err
	}

	alert := email.HighValueLeadAlert{
		LeadEmail:    lead.Email,
		LeadName:     lead.Name,
		Company:      lead.Company,
		Score:        e.Score,
		Band:         e.Band,
		PreviousBand: e.PreviousBand,
		Tags:         e.Tags,
	}

	if err := m.sender.SendHighValueLeadAlert(ctx, m.recipient, alert); err != nil {
		m.log.Error("failed to send high-value lead alert", "error", err, "leadId", e.LeadID)
		return err
	}

	m.log.Info("high-value lead alert sent", "leadId", e.LeadID, "score", e.Score, "recipient", m.recipient)
	return nil
}
