package repository

import (
	"context"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

// Write methods that must compose into one atomic unit take a
// database.Querier so the caller can run them inside a transaction.
// Plain reads run on the repository's own connection.

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// EntityRepository defines the interface for content entity data operations
type EntityRepository interface {
	Create(ctx context.Context, q database.Querier, entity *models.ContentEntity) error
	GetByID(ctx context.Context, projectID, id string) (*models.ContentEntity, error)
	// ProjectID returns the owning project id for an entity of the given
	// kind, or "" when no such row exists.
	ProjectID(ctx context.Context, q database.Querier, kind models.Kind, id string) (string, error)
	// UpdateStatus writes status and lifecycle timestamps, matching on the
	// expected prior status. A raced transition reports
	// ErrInvalidStateTransition.
	UpdateStatus(ctx context.Context, q database.Querier, entity *models.ContentEntity, prior models.EntityStatus) error
	Count(ctx context.Context) (int, error)
}

// NodeRepository defines the interface for auxiliary node kinds, each stored
// in its own table
type NodeRepository interface {
	// ProjectID returns the owning project id for an auxiliary node of the
	// given kind, or "" when no such row exists.
	ProjectID(ctx context.Context, q database.Querier, kind models.Kind, id string) (string, error)
	GetSourceItem(ctx context.Context, projectID, id string) (*models.SourceItem, error)
	UpdateSourceItemTriage(ctx context.Context, q database.Querier, projectID, id string, status models.TriageStatus) error
}

// RelationRepository defines the interface for relation edge data operations
type RelationRepository interface {
	Create(ctx context.Context, q database.Querier, edge *models.RelationEdge) error
	GetByID(ctx context.Context, projectID, id string) (*models.RelationEdge, error)
	UpdateNotes(ctx context.Context, q database.Querier, projectID, id, notes string) error
	// ListByEndpoint returns all edges within projectID that have node as
	// either endpoint, optionally filtered by relation type, ordered by
	// (created_at desc, id desc).
	ListByEndpoint(ctx context.Context, projectID string, node models.NodeRef, filter models.RelationType) ([]*models.RelationEdge, error)
	Count(ctx context.Context) (int, error)
}

// EventRepository defines the interface for the append-only ledger.
// There is deliberately no update or delete.
type EventRepository interface {
	Append(ctx context.Context, q database.Querier, event *models.Event) error
	ListByRecord(ctx context.Context, projectID string, entityKind models.Kind, entityID string, limit int) ([]*models.Event, error)
}

// ArtifactRepository defines the interface for ephemeral artifact operations
type ArtifactRepository interface {
	Create(ctx context.Context, q database.Querier, artifact *models.Artifact) error
	// GetVisible applies the default-read predicate: not soft-deleted and
	// not yet expired.
	GetVisible(ctx context.Context, projectID, id string, now time.Time) (*models.Artifact, error)
	// GetLive returns the artifact regardless of expiry, as long as it has
	// not been archived. Used by the manual archive path.
	GetLive(ctx context.Context, projectID, id string) (*models.Artifact, error)
	MarkArchived(ctx context.Context, q database.Querier, id string, now time.Time) (bool, error)
	// SelectExpired locks and returns up to limit expired draft artifacts,
	// ordered by (expires_at asc, id asc). Rows already archived or locked
	// by a concurrent sweeper are skipped.
	SelectExpired(ctx context.Context, q database.Querier, now time.Time, limit int) ([]*models.Artifact, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Project  ProjectRepository
	Entity   EntityRepository
	Node     NodeRepository
	Relation RelationRepository
	Event    EventRepository
	Artifact ArtifactRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Project:  NewProjectRepo(db),
		Entity:   NewEntityRepo(db),
		Node:     NewNodeRepo(db),
		Relation: NewRelationRepo(db),
		Event:    NewEventRepo(db),
		Artifact: NewArtifactRepo(db),
	}
}
