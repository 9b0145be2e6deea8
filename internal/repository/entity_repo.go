package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/lib/pq"
)

const entityColumns = `id, project_id, entity_type, title, slug, status, concept_kind,
	repo_url, canonical_url, content_ref, published_at, archived_at, last_verified_at,
	created_at, updated_at`

// entityRepo is the concrete implementation of EntityRepository
type entityRepo struct {
	db *database.DB
}

// NewEntityRepo creates a new content entity repository
func NewEntityRepo(db *database.DB) EntityRepository {
	return &entityRepo{db: db}
}

// Create inserts a new content entity. A (project_id, entity_type, slug)
// collision is reported as ErrDuplicateSlug.
func (r *entityRepo) Create(ctx context.Context, q database.Querier, entity *models.ContentEntity) error {
	query := `
		INSERT INTO entities (id, project_id, entity_type, title, slug, status, concept_kind,
			repo_url, canonical_url, content_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := q.ExecContext(ctx, query,
		entity.ID, entity.ProjectID, entity.EntityType, entity.Title, entity.Slug,
		entity.Status, nullString(entity.ConceptKind), nullString(entity.RepoURL),
		nullString(entity.CanonicalURL), nullString(entity.ContentRef),
		entity.CreatedAt, entity.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicateSlug
	}
	return err
}

// GetByID retrieves a content entity scoped to a project. A row belonging
// to another project is indistinguishable from an absent one.
func (r *entityRepo) GetByID(ctx context.Context, projectID, id string) (*models.ContentEntity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE project_id = $1 AND id = $2`
	return scanEntity(r.db.QueryRowContext(ctx, query, projectID, id))
}

// ProjectID resolves the owning project of an entity of the given kind
func (r *entityRepo) ProjectID(ctx context.Context, q database.Querier, kind models.Kind, id string) (string, error) {
	var projectID string
	err := q.QueryRowContext(ctx,
		"SELECT project_id FROM entities WHERE id = $1 AND entity_type = $2",
		id, kind,
	).Scan(&projectID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return projectID, nil
}

// UpdateStatus writes the entity's status and lifecycle timestamps. The
// update matches on the expected prior status, so a transition raced by a
// concurrent writer finds zero rows and reports ErrInvalidStateTransition
// instead of committing a second time.
func (r *entityRepo) UpdateStatus(ctx context.Context, q database.Querier, entity *models.ContentEntity, prior models.EntityStatus) error {
	query := `
		UPDATE entities
		SET status = $1, published_at = $2, archived_at = $3, updated_at = $4
		WHERE id = $5 AND project_id = $6 AND status = $7
	`
	res, err := q.ExecContext(ctx, query,
		entity.Status, entity.PublishedAt, entity.ArchivedAt, time.Now(),
		entity.ID, entity.ProjectID, prior,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrInvalidStateTransition
	}
	return nil
}

// Count returns the total number of content entities
func (r *entityRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities").Scan(&count)
	return count, err
}

func scanEntity(row *sql.Row) (*models.ContentEntity, error) {
	var entity models.ContentEntity
	var conceptKind, repoURL, canonicalURL, contentRef sql.NullString
	var publishedAt, archivedAt, lastVerifiedAt sql.NullTime

	err := row.Scan(
		&entity.ID, &entity.ProjectID, &entity.EntityType, &entity.Title, &entity.Slug,
		&entity.Status, &conceptKind, &repoURL, &canonicalURL, &contentRef,
		&publishedAt, &archivedAt, &lastVerifiedAt, &entity.CreatedAt, &entity.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entity.ConceptKind = conceptKind.String
	entity.RepoURL = repoURL.String
	entity.CanonicalURL = canonicalURL.String
	entity.ContentRef = contentRef.String
	if publishedAt.Valid {
		entity.PublishedAt = &publishedAt.Time
	}
	if archivedAt.Valid {
		entity.ArchivedAt = &archivedAt.Time
	}
	if lastVerifiedAt.Valid {
		entity.LastVerifiedAt = &lastVerifiedAt.Time
	}
	return &entity, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
