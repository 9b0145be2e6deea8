package repository

import (
	"context"
	"database/sql"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

// projectRepo is the concrete implementation of ProjectRepository
type projectRepo struct {
	db *database.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *database.DB) ProjectRepository {
	return &projectRepo{db: db}
}

// Create inserts a new project
func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, slug, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		project.ID, project.Slug, project.Name, project.CreatedAt,
	)
	return err
}

// GetByID retrieves a project by ID
func (r *projectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT id, slug, name, created_at FROM projects WHERE id = $1`

	var project models.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.Slug, &project.Name, &project.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetBySlug retrieves a project by its unique slug
func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	query := `SELECT id, slug, name, created_at FROM projects WHERE slug = $1`

	var project models.Project
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&project.ID, &project.Slug, &project.Name, &project.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Exists checks if a project with the given ID exists
func (r *projectRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)", id).Scan(&exists)
	return exists, err
}
