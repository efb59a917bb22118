// Package repository provides data access for leads.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead is a captured lead with its current score state.
type Lead struct {
	ID              uuid.UUID
	OrganizationID  uuid.UUID
	Email           string
	Name            string
	Company         string
	Domain          string
	Phone           string
	Source          string
	Fields          map[string]any
	UTM             map[string]string
	Score           *int
	Band            *string
	ScoreTags       []string
	BaseScore       *int
	ScoreComponents map[string]int
	ScoreTrace      []string
	ScoredAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateLeadParams holds the fields for inserting a lead.
type CreateLeadParams struct {
	OrganizationID uuid.UUID
	Email          string
	Name           string
	Company        string
	Domain         string
	Phone          string
	Source         string
	Fields         map[string]any
	UTM            map[string]string
}

// UpdateScoreParams holds a persisted scoring result.
type UpdateScoreParams struct {
	LeadID         uuid.UUID
	OrganizationID uuid.UUID
	Score          int
	Band           string
	Tags           []string
	BaseScore      int
	Components     map[string]int
	Trace          []string
	ScoredAt       time.Time
}

// ListFilter narrows and pages a lead listing.
type ListFilter struct {
	Band   string
	Search string
	Limit  int
	Offset int
}

// Repository provides data access for leads and their timeline.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `
	id, organization_id, email, name, company, domain, phone, source,
	fields, utm, score, band, score_tags, base_score, score_components,
	score_trace, scored_at, created_at, updated_at`

// Create inserts a new lead.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	if params.Fields == nil {
		params.Fields = map[string]any{}
	}
	if params.UTM == nil {
		params.UTM = map[string]string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (organization_id, email, name, company, domain, phone, source, fields, utm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING`+leadColumns,
		params.OrganizationID, params.Email, params.Name, params.Company,
		params.Domain, params.Phone, params.Source, params.Fields, params.UTM,
	)
	return scanLead(row)
}

// GetByID retrieves a lead scoped to its organization.
func (r *Repository) GetByID(ctx context.Context, leadID, orgID uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+leadColumns+`
		FROM leads
		WHERE id = $1 AND organization_id = $2
	`, leadID, orgID)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	return lead, err
}

// List returns leads for an organization, newest first, with an exact total.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID, filter ListFilter) ([]Lead, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	where := []string{"organization_id = $1"}
	args := []any{orgID}

	if filter.Band != "" {
		args = append(args, filter.Band)
		where = append(where, fmt.Sprintf("band = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(lower(email) LIKE $%d OR lower(name) LIKE $%d OR lower(company) LIKE $%d)", n, n, n))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT count(*) FROM leads WHERE "+whereClause, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT%s
		FROM leads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	return leads, total, rows.Err()
}

// UpdateScore persists a scoring result onto the lead row.
func (r *Repository) UpdateScore(ctx context.Context, params UpdateScoreParams) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET score = $3, band = $4, score_tags = $5, base_score = $6,
		    score_components = $7, score_trace = $8, scored_at = $9, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, params.LeadID, params.OrganizationID, params.Score, params.Band,
		params.Tags, params.BaseScore, params.Components, params.Trace, params.ScoredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// ListIDs returns all lead IDs for an organization, oldest first.
// Used by organization-wide rescoring.
func (r *Repository) ListIDs(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM leads WHERE organization_id = $1 ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FindRecentDuplicate looks for a lead with the same email captured within
// the window. Used by webhook ingestion to absorb double submissions.
func (r *Repository) FindRecentDuplicate(ctx context.Context, orgID uuid.UUID, email string, window time.Duration) (*uuid.UUID, error) {
	if email == "" {
		return nil, nil
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM leads
		WHERE organization_id = $1 AND lower(email) = lower($2) AND created_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`, orgID, email, time.Now().Add(-window)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.OrganizationID, &lead.Email, &lead.Name, &lead.Company,
		&lead.Domain, &lead.Phone, &lead.Source, &lead.Fields, &lead.UTM,
		&lead.Score, &lead.Band, &lead.ScoreTags, &lead.BaseScore,
		&lead.ScoreComponents, &lead.ScoreTrace, &lead.ScoredAt,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}
