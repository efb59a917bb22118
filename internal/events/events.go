// Package events defines the domain events exchanged between modules.
// The bus infrastructure lives in platform/events; this package only
// declares the event payloads.
package events

import (
	"leadscore_backend/platform/events"

	"github.com/google/uuid"
)

// Re-exported so modules can depend on a single events import.
type (
	Event       = events.Event
	BaseEvent   = events.BaseEvent
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	Bus         = events.Bus
)

// NewBaseEvent creates a base event stamped with the current time.
func NewBaseEvent() BaseEvent { return events.NewBaseEvent() }

// NewInMemoryBus creates the default in-process bus.
var NewInMemoryBus = events.NewInMemoryBus

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCaptured is published when a new lead enters the system, whether
// through the API or the webhook form capture. The scoring module
// subscribes and scores the lead asynchronously.
type LeadCaptured struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Source         string    `json:"source,omitempty"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// WebhookLeadCaptured is published when a lead is created via the webhook
// form capture, alongside LeadCaptured, for webhook-specific consumers.
type WebhookLeadCaptured struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	SourceDomain   string    `json:"sourceDomain"`
	IsIncomplete   bool      `json:"isIncomplete"`
}

func (e WebhookLeadCaptured) EventName() string { return "webhook.lead.captured" }

// =============================================================================
// Scoring Domain Events
// =============================================================================

// LeadScored is published after a lead's score has been computed and
// persisted. PreviousBand is empty when the lead had never been scored.
type LeadScored struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Score          int       `json:"score"`
	Band           string    `json:"band"`
	PreviousBand   string    `json:"previousBand,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
}

func (e LeadScored) EventName() string { return "scoring.lead.scored" }

// ScoringConfigChanged is published when an organization's scoring
// configuration or rules change. The scheduler subscribes and enqueues
// an organization-wide rescore.
type ScoringConfigChanged struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	ChangedBy      uuid.UUID `json:"changedBy"`
	Reason         string    `json:"reason"`
}

func (e ScoringConfigChanged) EventName() string { return "scoring.config.changed" }
