package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

// auxTables maps each auxiliary node kind to its table. This map and the
// relation vocabulary must name the same kind set; the resolver is built
// from both so a kind cannot appear in one without the other.
var auxTables = map[models.Kind]string{
	models.KindSourceItem:        "source_items",
	models.KindSourceFeed:        "source_feeds",
	models.KindDistributionEvent: "distribution_events",
	models.KindVideo:             "videos",
	models.KindMetricSnapshot:    "metric_snapshots",
}

// nodeRepo is the concrete implementation of NodeRepository
type nodeRepo struct {
	db *database.DB
}

// NewNodeRepo creates a new auxiliary node repository
func NewNodeRepo(db *database.DB) NodeRepository {
	return &nodeRepo{db: db}
}

// ProjectID resolves the owning project of an auxiliary node
func (r *nodeRepo) ProjectID(ctx context.Context, q database.Querier, kind models.Kind, id string) (string, error) {
	table, ok := auxTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedKind, kind)
	}

	var projectID string
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT project_id FROM %s WHERE id = $1", table),
		id,
	).Scan(&projectID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return projectID, nil
}

// GetSourceItem retrieves a source item scoped to a project
func (r *nodeRepo) GetSourceItem(ctx context.Context, projectID, id string) (*models.SourceItem, error) {
	query := `
		SELECT id, project_id, feed_id, url, title, triage_status, created_at
		FROM source_items WHERE project_id = $1 AND id = $2
	`

	var item models.SourceItem
	var feedID sql.NullString
	err := r.db.QueryRowContext(ctx, query, projectID, id).Scan(
		&item.ID, &item.ProjectID, &feedID, &item.URL, &item.Title,
		&item.TriageStatus, &item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item.FeedID = feedID.String
	return &item, nil
}

// UpdateSourceItemTriage writes a source item's triage status. The update is
// keyed by project and id so the write itself enforces the partition.
func (r *nodeRepo) UpdateSourceItemTriage(ctx context.Context, q database.Querier, projectID, id string, status models.TriageStatus) error {
	res, err := q.ExecContext(ctx,
		"UPDATE source_items SET triage_status = $1 WHERE project_id = $2 AND id = $3",
		status, projectID, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
