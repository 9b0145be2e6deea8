package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

// eventRepo is the concrete implementation of EventRepository. The table is
// append-only: no update or delete statement exists anywhere in this package.
type eventRepo struct {
	db *database.DB
}

// NewEventRepo creates a new ledger repository
func NewEventRepo(db *database.DB) EventRepository {
	return &eventRepo{db: db}
}

// Append inserts a ledger event. Types outside the closed vocabulary and
// unknown actors are rejected before touching the database.
func (r *eventRepo) Append(ctx context.Context, q database.Querier, event *models.Event) error {
	if !models.ValidEventTypes[event.EventType] {
		return fmt.Errorf("%w: %s", models.ErrInvalidEventType, event.EventType)
	}
	if !models.ValidActors[event.Actor] {
		return fmt.Errorf("invalid actor: %s", event.Actor)
	}

	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode event details: %w", err)
	}
	if event.Details == nil {
		detailsJSON = []byte("{}")
	}

	query := `
		INSERT INTO events (id, project_id, event_type, entity_kind, entity_id, actor, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = q.ExecContext(ctx, query,
		event.ID, event.ProjectID, event.EventType, event.EntityKind, event.EntityID,
		event.Actor, detailsJSON, event.CreatedAt,
	)
	return err
}

// ListByRecord returns the ledger entries for one record, newest first
func (r *eventRepo) ListByRecord(ctx context.Context, projectID string, entityKind models.Kind, entityID string, limit int) ([]*models.Event, error) {
	query := `
		SELECT id, project_id, event_type, entity_kind, entity_id, actor, details, created_at
		FROM events
		WHERE project_id = $1 AND entity_kind = $2 AND entity_id = $3
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, projectID, entityKind, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var event models.Event
		var detailsJSON []byte
		err := rows.Scan(
			&event.ID, &event.ProjectID, &event.EventType, &event.EntityKind,
			&event.EntityID, &event.Actor, &detailsJSON, &event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		event.Details, err = decodeDetails(event.ID, detailsJSON)
		if err != nil {
			return nil, err
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}

// decodeDetails parses an event's jsonb details column. Corrupt stored
// details are an error, not an empty map.
func decodeDetails(eventID string, raw []byte) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var details map[string]interface{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("failed to decode details for event %s: %w", eventID, err)
	}
	return details, nil
}
