// Package transport defines request/response DTOs for the leads module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateLeadRequest is the payload for creating a lead.
type CreateLeadRequest struct {
	Email   string            `json:"email" validate:"required,email"`
	Name    string            `json:"name" validate:"max=200"`
	Company string            `json:"company" validate:"max=200"`
	Phone   string            `json:"phone" validate:"max=32"`
	Source  string            `json:"source" validate:"max=200"`
	Fields  map[string]any    `json:"fields"`
	UTM     map[string]string `json:"utm"`
}

// ListLeadsRequest holds query filters for listing leads.
type ListLeadsRequest struct {
	Band   string `form:"band" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	Search string `form:"search" validate:"max=200"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
}

// LeadResponse is the API representation of a lead.
type LeadResponse struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name,omitempty"`
	Company   string            `json:"company,omitempty"`
	Domain    string            `json:"domain,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Source    string            `json:"source,omitempty"`
	Fields    map[string]any    `json:"fields,omitempty"`
	UTM       map[string]string `json:"utm,omitempty"`
	Score     *int              `json:"score,omitempty"`
	Band      string            `json:"band,omitempty"`
	ScoreTags []string          `json:"scoreTags,omitempty"`
	ScoredAt  *time.Time        `json:"scoredAt,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ListLeadsResponse is a paged collection of leads.
type ListLeadsResponse struct {
	Leads  []LeadResponse `json:"leads"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// TimelineEventResponse is one audit trail entry for a lead.
type TimelineEventResponse struct {
	ID        uuid.UUID      `json:"id"`
	LeadID    uuid.UUID      `json:"leadId"`
	ActorType string         `json:"actorType"`
	EventType string         `json:"eventType"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
