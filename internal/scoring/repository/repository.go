// Package repository provides data access for scoring configuration and rules.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leadscore_backend/internal/scoring/engine"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrConfigNotFound = errors.New("scoring config not found")
	ErrRuleNotFound   = errors.New("scoring rule not found")
)

// StoredLists is the JSONB shape of the customizable match lists.
type StoredLists struct {
	CompetitorDomains  []string `json:"competitorDomains"`
	FreeEmailProviders []string `json:"freeEmailProviders"`
	SpamKeywords       []string `json:"spamKeywords"`
}

// StoredConfig is an organization's persisted scoring configuration.
type StoredConfig struct {
	OrganizationID uuid.UUID
	Weights        engine.Weights
	Negative       engine.Negative
	Enrichment     engine.Enrichment
	Bands          engine.Bands
	Lists          StoredLists
	UpdatedBy      *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StoredRule is a persisted scoring rule row.
type StoredRule struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Type           string
	Enabled        bool
	Order          int
	Definition     json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateRuleParams holds the fields for inserting a rule.
type CreateRuleParams struct {
	OrganizationID uuid.UUID
	Name           string
	Type           string
	Enabled        bool
	Order          int
	Definition     json.RawMessage
}

// UpdateRuleParams holds partial updates for a rule. Nil fields are unchanged.
type UpdateRuleParams struct {
	Name       *string
	Enabled    *bool
	Order      *int
	Definition json.RawMessage
}

// Repository provides data access for scoring configs and rules.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new scoring repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetConfig retrieves an organization's scoring configuration.
func (r *Repository) GetConfig(ctx context.Context, orgID uuid.UUID) (StoredConfig, error) {
	var cfg StoredConfig
	err := r.pool.QueryRow(ctx, `
		SELECT organization_id, weights, negative, enrichment, bands, lists, updated_by, created_at, updated_at
		FROM scoring_configs
		WHERE organization_id = $1
	`, orgID).Scan(
		&cfg.OrganizationID, &cfg.Weights, &cfg.Negative, &cfg.Enrichment,
		&cfg.Bands, &cfg.Lists, &cfg.UpdatedBy, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredConfig{}, ErrConfigNotFound
	}
	return cfg, err
}

// UpsertConfig inserts or replaces an organization's scoring configuration.
func (r *Repository) UpsertConfig(ctx context.Context, cfg StoredConfig) (StoredConfig, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO scoring_configs (organization_id, weights, negative, enrichment, bands, lists, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (organization_id) DO UPDATE
		SET weights = EXCLUDED.weights,
		    negative = EXCLUDED.negative,
		    enrichment = EXCLUDED.enrichment,
		    bands = EXCLUDED.bands,
		    lists = EXCLUDED.lists,
		    updated_by = EXCLUDED.updated_by,
		    updated_at = now()
		RETURNING organization_id, weights, negative, enrichment, bands, lists, updated_by, created_at, updated_at
	`, cfg.OrganizationID, cfg.Weights, cfg.Negative, cfg.Enrichment, cfg.Bands, cfg.Lists, cfg.UpdatedBy)

	var saved StoredConfig
	err := row.Scan(
		&saved.OrganizationID, &saved.Weights, &saved.Negative, &saved.Enrichment,
		&saved.Bands, &saved.Lists, &saved.UpdatedBy, &saved.CreatedAt, &saved.UpdatedAt,
	)
	return saved, err
}

const ruleColumns = `
	id, organization_id, name, type, enabled, sort_order, definition, created_at, updated_at`

// ListRules returns all rules for an organization ordered by sort_order,
// including disabled rules. The engine skips disabled rules itself so the
// API can show the complete rule set.
func (r *Repository) ListRules(ctx context.Context, orgID uuid.UUID) ([]StoredRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+ruleColumns+`
		FROM scoring_rules
		WHERE organization_id = $1
		ORDER BY sort_order, created_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []StoredRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// GetRule retrieves a single rule scoped to its organization.
func (r *Repository) GetRule(ctx context.Context, ruleID, orgID uuid.UUID) (StoredRule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+ruleColumns+`
		FROM scoring_rules
		WHERE id = $1 AND organization_id = $2
	`, ruleID, orgID)

	rule, err := scanRule(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredRule{}, ErrRuleNotFound
	}
	return rule, err
}

// CreateRule inserts a new rule.
func (r *Repository) CreateRule(ctx context.Context, params CreateRuleParams) (StoredRule, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO scoring_rules (organization_id, name, type, enabled, sort_order, definition)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING`+ruleColumns,
		params.OrganizationID, params.Name, params.Type, params.Enabled,
		params.Order, params.Definition,
	)
	return scanRule(row)
}

// UpdateRule applies a partial update to a rule.
func (r *Repository) UpdateRule(ctx context.Context, ruleID, orgID uuid.UUID, params UpdateRuleParams) (StoredRule, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE scoring_rules
		SET name = COALESCE($3, name),
		    enabled = COALESCE($4, enabled),
		    sort_order = COALESCE($5, sort_order),
		    definition = COALESCE($6, definition),
		    updated_at = now()
		WHERE id = $1 AND organization_id = $2
		RETURNING`+ruleColumns,
		ruleID, orgID, params.Name, params.Enabled, params.Order, params.Definition,
	)

	rule, err := scanRule(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredRule{}, ErrRuleNotFound
	}
	return rule, err
}

// DeleteRule removes a rule.
func (r *Repository) DeleteRule(ctx context.Context, ruleID, orgID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM scoring_rules WHERE id = $1 AND organization_id = $2
	`, ruleID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (StoredRule, error) {
	var rule StoredRule
	err := row.Scan(
		&rule.ID, &rule.OrganizationID, &rule.Name, &rule.Type, &rule.Enabled,
		&rule.Order, &rule.Definition, &rule.CreatedAt, &rule.UpdatedAt,
	)
	return rule, err
}
