package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Timeline event types recorded against leads.
const (
	TimelineEventLeadCaptured = "lead_captured"
	TimelineEventLeadScored   = "lead_scored"
)

// Actor types for timeline events.
const (
	ActorTypeSystem = "System"
	ActorTypeUser   = "User"
)

// TimelineEvent is one audit trail entry for a lead.
type TimelineEvent struct {
	ID             uuid.UUID
	LeadID         uuid.UUID
	OrganizationID uuid.UUID
	ActorType      string
	EventType      string
	Title          string
	Summary        *string
	Metadata       map[string]any
	CreatedAt      time.Time
}

// CreateTimelineEventParams describes a timeline entry to append.
type CreateTimelineEventParams struct {
	LeadID         uuid.UUID
	OrganizationID uuid.UUID
	ActorType      string
	EventType      string
	Title          string
	Summary        *string
	Metadata       map[string]any
}

// CreateTimelineEvent appends an entry to a lead's timeline.
func (r *Repository) CreateTimelineEvent(ctx context.Context, params CreateTimelineEventParams) error {
	if params.Metadata == nil {
		params.Metadata = map[string]any{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_timeline_events (lead_id, organization_id, actor_type, event_type, title, summary, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, params.LeadID, params.OrganizationID, params.ActorType, params.EventType,
		params.Title, params.Summary, params.Metadata)
	return err
}

// ListTimelineEvents returns a lead's timeline, newest first.
func (r *Repository) ListTimelineEvents(ctx context.Context, leadID, orgID uuid.UUID, limit int) ([]TimelineEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, organization_id, actor_type, event_type, title, summary, metadata, created_at
		FROM lead_timeline_events
		WHERE lead_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, leadID, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimelineEvent
	for rows.Next() {
		var entry TimelineEvent
		if err := rows.Scan(
			&entry.ID, &entry.LeadID, &entry.OrganizationID, &entry.ActorType,
			&entry.EventType, &entry.Title, &entry.Summary, &entry.Metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
