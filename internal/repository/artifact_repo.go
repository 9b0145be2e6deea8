package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

const artifactColumns = `id, project_id, kind, status, content, content_hash, source_refs,
	created_by, expires_at, deleted_at, created_at, updated_at`

// artifactRepo is the concrete implementation of ArtifactRepository
type artifactRepo struct {
	db *database.DB
}

// NewArtifactRepo creates a new ephemeral artifact repository
func NewArtifactRepo(db *database.DB) ArtifactRepository {
	return &artifactRepo{db: db}
}

// Create inserts a new artifact
func (r *artifactRepo) Create(ctx context.Context, q database.Querier, artifact *models.Artifact) error {
	refsJSON, err := json.Marshal(artifact.SourceRefs)
	if err != nil {
		return err
	}
	if artifact.SourceRefs == nil {
		refsJSON = []byte("[]")
	}

	query := `
		INSERT INTO artifacts (id, project_id, kind, status, content, content_hash, source_refs,
			created_by, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = q.ExecContext(ctx, query,
		artifact.ID, artifact.ProjectID, artifact.Kind, artifact.Status,
		artifact.Content, nullString(artifact.ContentHash), refsJSON,
		artifact.CreatedBy, artifact.ExpiresAt, artifact.CreatedAt, artifact.UpdatedAt,
	)
	return err
}

// GetVisible retrieves an artifact under the default-read predicate:
// deleted_at is the authoritative invisibility signal, and an expired
// artifact is hidden even before the sweep archives it.
func (r *artifactRepo) GetVisible(ctx context.Context, projectID, id string, now time.Time) (*models.Artifact, error) {
	query := `
		SELECT ` + artifactColumns + `
		FROM artifacts
		WHERE project_id = $1 AND id = $2 AND deleted_at IS NULL AND expires_at > $3
	`
	return scanArtifact(r.db.QueryRowContext(ctx, query, projectID, id, now))
}

// GetLive retrieves a not-yet-archived artifact regardless of expiry
func (r *artifactRepo) GetLive(ctx context.Context, projectID, id string) (*models.Artifact, error) {
	query := `
		SELECT ` + artifactColumns + `
		FROM artifacts
		WHERE project_id = $1 AND id = $2 AND deleted_at IS NULL
	`
	return scanArtifact(r.db.QueryRowContext(ctx, query, projectID, id))
}

// MarkArchived transitions an artifact to archived and stamps deleted_at.
// Returns false when the artifact was already archived (or absent), so the
// sweep never double-counts.
func (r *artifactRepo) MarkArchived(ctx context.Context, q database.Querier, id string, now time.Time) (bool, error) {
	query := `
		UPDATE artifacts
		SET status = $1, deleted_at = $2, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	res, err := q.ExecContext(ctx, query, models.ArtifactStatusArchived, now, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SelectExpired locks and returns up to limit expired draft artifacts.
// SKIP LOCKED lets concurrent sweepers partition the backlog instead of
// blocking on or double-archiving each other's rows.
func (r *artifactRepo) SelectExpired(ctx context.Context, q database.Querier, now time.Time, limit int) ([]*models.Artifact, error) {
	query := `
		SELECT ` + artifactColumns + `
		FROM artifacts
		WHERE status = $1 AND deleted_at IS NULL AND expires_at < $2
		ORDER BY expires_at ASC, id ASC
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`
	rows, err := q.QueryContext(ctx, query, models.ArtifactStatusDraft, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []*models.Artifact
	for rows.Next() {
		artifact, err := scanArtifactRow(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, rows.Err()
}

// Count returns the total number of artifacts
func (r *artifactRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artifacts").Scan(&count)
	return count, err
}

func scanArtifact(row *sql.Row) (*models.Artifact, error) {
	artifact, err := scanArtifactRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

func scanArtifactRow(s scanner) (*models.Artifact, error) {
	var artifact models.Artifact
	var contentHash sql.NullString
	var refsJSON []byte
	var deletedAt sql.NullTime

	err := s.Scan(
		&artifact.ID, &artifact.ProjectID, &artifact.Kind, &artifact.Status,
		&artifact.Content, &contentHash, &refsJSON, &artifact.CreatedBy,
		&artifact.ExpiresAt, &deletedAt, &artifact.CreatedAt, &artifact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	artifact.ContentHash = contentHash.String
	if len(refsJSON) > 0 {
		if err := json.Unmarshal(refsJSON, &artifact.SourceRefs); err != nil {
			return nil, fmt.Errorf("failed to decode source refs for artifact %s: %w", artifact.ID, err)
		}
	}
	if deletedAt.Valid {
		artifact.DeletedAt = &deletedAt.Time
	}
	return &artifact, nil
}
