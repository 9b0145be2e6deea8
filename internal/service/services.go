package service

import (
	"context"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/graph"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/validation"
	"github.com/rs/zerolog"
)

// TxRunner executes a function inside a database transaction.
// *database.DB satisfies it; tests substitute a pass-through.
type TxRunner interface {
	RunTx(ctx context.Context, fn func(q database.Querier) error) error
}

// RelationService defines the interface for relation graph operations
type RelationService interface {
	CreateEdge(ctx context.Context, projectID string, req *models.CreateEdgeRequest) (*models.RelationEdge, error)
	UpdateNotes(ctx context.Context, projectID, edgeID, notes string, actor models.Actor) (*models.RelationEdge, error)
	Traverse(ctx context.Context, projectID string, root models.NodeRef, depth int, filter models.RelationType) (*graph.TraversalResult, error)
}

// LifecycleService defines the interface for entity lifecycle operations
type LifecycleService interface {
	CreateEntity(ctx context.Context, projectID string, req *models.CreateEntityRequest) (*models.ContentEntity, error)
	GetEntity(ctx context.Context, projectID, id string) (*models.ContentEntity, error)
	RequestPublish(ctx context.Context, projectID, id string, actor models.Actor) (*models.ContentEntity, error)
	Publish(ctx context.Context, projectID, id string, actor models.Actor) (*models.ContentEntity, error)
	Validate(ctx context.Context, projectID, id string) (*ValidationReport, error)
	Archive(ctx context.Context, projectID, id string, actor models.Actor) (*models.ContentEntity, error)
	TriageSourceItem(ctx context.Context, projectID, id string, status models.TriageStatus, actor models.Actor) (*models.SourceItem, error)
}

// ArtifactService defines the interface for ephemeral artifact operations
type ArtifactService interface {
	Create(ctx context.Context, projectID string, req *models.CreateArtifactRequest) (*models.Artifact, error)
	Get(ctx context.Context, projectID, id string) (*models.Artifact, error)
	Archive(ctx context.Context, projectID, id string, actor models.Actor) (*models.Artifact, error)
	SweepExpired(ctx context.Context, limit int) ([]string, error)
}

// Services holds all service interfaces
type Services struct {
	Relation  RelationService
	Lifecycle LifecycleService
	Artifact  ArtifactService
}

// NewServices creates all services and the shared graph components.
// The resolver, enforcer and vocabulary table are built once here and are
// read-only afterwards.
func NewServices(q database.Querier, tx TxRunner, repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	resolver := graph.NewResolver(repos.Entity, repos.Node)
	enforcer := graph.NewEnforcer(resolver)
	traverser := graph.NewTraverser(repos.Relation, resolver)
	validator := validation.NewValidator(repos.Relation)

	return &Services{
		Relation:  NewRelationService(q, tx, repos, enforcer, traverser, log),
		Lifecycle: NewLifecycleService(tx, repos, validator, log),
		Artifact:  NewArtifactService(tx, repos, cfg, log),
	}
}

func defaultActor(actor models.Actor) models.Actor {
	if actor == "" {
		return models.ActorSystem
	}
	return actor
}
