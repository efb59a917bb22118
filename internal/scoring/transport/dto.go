// Package transport defines request/response DTOs for the scoring module.
package transport

import (
	"encoding/json"
	"time"

	"leadscore_backend/internal/scoring/engine"

	"github.com/google/uuid"
)

// ConfigResponse is the API representation of an organization's scoring
// configuration, always complete after normalization against defaults.
type ConfigResponse struct {
	Weights    engine.Weights    `json:"weights"`
	Negative   engine.Negative   `json:"negative"`
	Enrichment engine.Enrichment `json:"enrichment"`
	Bands      engine.Bands      `json:"bands"`
	Lists      ListsPayload      `json:"lists"`
	UpdatedAt  *time.Time        `json:"updatedAt,omitempty"`
}

// ListsPayload carries the customizable match lists.
type ListsPayload struct {
	CompetitorDomains  []string `json:"competitorDomains"`
	FreeEmailProviders []string `json:"freeEmailProviders"`
	SpamKeywords       []string `json:"spamKeywords"`
}

// UpdateConfigRequest replaces an organization's scoring configuration.
// Omitted sub-tables fall back to the embedded defaults.
type UpdateConfigRequest struct {
	Weights    engine.Weights    `json:"weights"`
	Negative   engine.Negative   `json:"negative"`
	Enrichment engine.Enrichment `json:"enrichment"`
	Bands      engine.Bands      `json:"bands"`
	Lists      ListsPayload      `json:"lists"`
}

// RuleResponse is the API representation of a scoring rule.
type RuleResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Enabled    bool            `json:"enabled"`
	Order      int             `json:"order"`
	Definition json.RawMessage `json:"definition"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// CreateRuleRequest adds a scoring rule.
type CreateRuleRequest struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Type       string          `json:"type" validate:"required,oneof=IF_THEN WEIGHT"`
	Enabled    *bool           `json:"enabled"`
	Order      int             `json:"order" validate:"min=0"`
	Definition json.RawMessage `json:"definition" validate:"required"`
}

// UpdateRuleRequest modifies a scoring rule. Nil fields are left unchanged.
type UpdateRuleRequest struct {
	Name       *string         `json:"name" validate:"omitempty,max=200"`
	Enabled    *bool           `json:"enabled"`
	Order      *int            `json:"order" validate:"omitempty,min=0"`
	Definition json.RawMessage `json:"definition"`
}

// PreviewRequest scores an ad-hoc lead without persisting anything.
type PreviewRequest struct {
	Email   string            `json:"email" validate:"required,email"`
	Name    string            `json:"name" validate:"max=200"`
	Company string            `json:"company" validate:"max=200"`
	Fields  map[string]any    `json:"fields"`
	UTM     map[string]string `json:"utm"`
}

// EvaluationResponse is the full scoring result.
type EvaluationResponse struct {
	Score       int                     `json:"score"`
	Band        string                  `json:"band"`
	BaseScore   int                     `json:"baseScore"`
	Components  map[string]int          `json:"components"`
	Tags        []string                `json:"tags"`
	Trace       []string                `json:"trace"`
	Adjustments []engine.RuleAdjustment `json:"adjustments"`
}

// RescoreResponse acknowledges an enqueued rescore.
type RescoreResponse struct {
	Enqueued bool   `json:"enqueued"`
	Message  string `json:"message"`
}
