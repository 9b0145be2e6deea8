package repository

import (
	"context"
	"database/sql"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

const relationColumns = `id, project_id, from_kind, from_id, relation_type, to_kind, to_id, notes, created_at`

// relationRepo is the concrete implementation of RelationRepository
type relationRepo struct {
	db *database.DB
}

// NewRelationRepo creates a new relation edge repository
func NewRelationRepo(db *database.DB) RelationRepository {
	return &relationRepo{db: db}
}

// Create inserts a new relation edge. The unique index on
// (project_id, from_kind, from_id, relation_type, to_kind, to_id) makes an
// identical insert report ErrDuplicateEdge instead of a second row.
func (r *relationRepo) Create(ctx context.Context, q database.Querier, edge *models.RelationEdge) error {
	query := `
		INSERT INTO relations (id, project_id, from_kind, from_id, relation_type, to_kind, to_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.ExecContext(ctx, query,
		edge.ID, edge.ProjectID, edge.FromKind, edge.FromID, edge.RelationType,
		edge.ToKind, edge.ToID, nullString(edge.Notes), edge.CreatedAt,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicateEdge
	}
	return err
}

// GetByID retrieves an edge scoped to a project
func (r *relationRepo) GetByID(ctx context.Context, projectID, id string) (*models.RelationEdge, error) {
	query := `SELECT ` + relationColumns + ` FROM relations WHERE project_id = $1 AND id = $2`

	edge, err := scanRelation(r.db.QueryRowContext(ctx, query, projectID, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// UpdateNotes writes an edge's notes. Notes are the only mutable edge field.
// The update is keyed by project and id so the write itself enforces the
// partition.
func (r *relationRepo) UpdateNotes(ctx context.Context, q database.Querier, projectID, id, notes string) error {
	res, err := q.ExecContext(ctx,
		"UPDATE relations SET notes = $1 WHERE project_id = $2 AND id = $3",
		nullString(notes), projectID, id,
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

// ListByEndpoint returns all edges within a project that touch node, ordered
// by (created_at desc, id desc) so repeated reads of unchanged data are
// byte-identical.
func (r *relationRepo) ListByEndpoint(ctx context.Context, projectID string, node models.NodeRef, filter models.RelationType) ([]*models.RelationEdge, error) {
	query := `
		SELECT ` + relationColumns + `
		FROM relations
		WHERE project_id = $1
		  AND ((from_kind = $2 AND from_id = $3) OR (to_kind = $2 AND to_id = $3))
	`
	args := []interface{}{projectID, node.Kind, node.ID}
	if filter != "" {
		query += " AND relation_type = $4"
		args = append(args, filter)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []*models.RelationEdge
	for rows.Next() {
		edge, err := scanRelation(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

// Count returns the total number of relation edges
func (r *relationRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM relations").Scan(&count)
	return count, err
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRelation(s scanner) (*models.RelationEdge, error) {
	var edge models.RelationEdge
	var notes sql.NullString
	err := s.Scan(
		&edge.ID, &edge.ProjectID, &edge.FromKind, &edge.FromID, &edge.RelationType,
		&edge.ToKind, &edge.ToID, &notes, &edge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	edge.Notes = notes.String
	return &edge, nil
}
