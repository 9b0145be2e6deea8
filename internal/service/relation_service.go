package service

import (
	"context"
	"fmt"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/graph"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// relationService is the concrete implementation of RelationService
type relationService struct {
	q        database.Querier
	tx       TxRunner
	repos    *repository.Repositories
	enforcer *graph.Enforcer
	traverse *graph.Traverser
	log      zerolog.Logger
}

// NewRelationService creates a new RelationService
func NewRelationService(q database.Querier, tx TxRunner, repos *repository.Repositories, enforcer *graph.Enforcer, traverser *graph.Traverser, log zerolog.Logger) RelationService {
	return &relationService{
		q:        q,
		tx:       tx,
		repos:    repos,
		enforcer: enforcer,
		traverse: traverser,
		log:      log.With().Str("service", "relation").Logger(),
	}
}

// CreateEdge validates the relation type against the closed vocabulary, then
// writes the edge, its integrity check, and its ledger event in one atomic
// unit. No other transaction ever observes the edge unchecked.
func (s *relationService) CreateEdge(ctx context.Context, projectID string, req *models.CreateEdgeRequest) (*models.RelationEdge, error) {
	if req.FromID == "" || req.ToID == "" {
		return nil, fmt.Errorf("from_id and to_id are required")
	}
	if !models.ValidActors[defaultActor(req.Actor)] {
		return nil, fmt.Errorf("invalid actor: %s", req.Actor)
	}

	if !graph.IsAllowed(req.FromKind, req.ToKind, req.RelationType) {
		return nil, fmt.Errorf("%w: %s for (%s, %s)",
			models.ErrInvalidRelationType, req.RelationType, req.FromKind, req.ToKind)
	}

	edge := &models.RelationEdge{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		FromKind:     req.FromKind,
		FromID:       req.FromID,
		RelationType: req.RelationType,
		ToKind:       req.ToKind,
		ToID:         req.ToID,
		Notes:        req.Notes,
		CreatedAt:    time.Now(),
	}

	err := s.tx.RunTx(ctx, func(q database.Querier) error {
		if err := s.enforcer.CheckEdge(ctx, q, edge); err != nil {
			return err
		}
		if err := s.repos.Relation.Create(ctx, q, edge); err != nil {
			return err
		}
		return s.repos.Event.Append(ctx, q, &models.Event{
			ID:         uuid.New().String(),
			ProjectID:  projectID,
			EventType:  models.EventRelationCreated,
			EntityKind: models.KindRelation,
			EntityID:   edge.ID,
			Actor:      defaultActor(req.Actor),
			Details: map[string]interface{}{
				"relation_type": edge.RelationType,
				"from_kind":     edge.FromKind,
				"from_id":       edge.FromID,
				"to_kind":       edge.ToKind,
				"to_id":         edge.ToID,
			},
			CreatedAt: edge.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("edge_id", edge.ID).
		Str("project_id", projectID).
		Str("relation_type", string(edge.RelationType)).
		Msg("Edge created")

	return edge, nil
}

// UpdateNotes mutates an edge's notes, the only field mutable after creation
func (s *relationService) UpdateNotes(ctx context.Context, projectID, edgeID, notes string, actor models.Actor) (*models.RelationEdge, error) {
	edge, err := s.repos.Relation.GetByID(ctx, projectID, edgeID)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, models.ErrNotFound
	}

	err = s.tx.RunTx(ctx, func(q database.Querier) error {
		if err := s.repos.Relation.UpdateNotes(ctx, q, projectID, edgeID, notes); err != nil {
			return err
		}
		return s.repos.Event.Append(ctx, q, &models.Event{
			ID:         uuid.New().String(),
			ProjectID:  projectID,
			EventType:  models.EventRelationNotesUpdated,
			EntityKind: models.KindRelation,
			EntityID:   edgeID,
			Actor:      defaultActor(actor),
			CreatedAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	edge.Notes = notes
	return edge, nil
}

// Traverse runs a read-only depth-bounded expansion from root
func (s *relationService) Traverse(ctx context.Context, projectID string, root models.NodeRef, depth int, filter models.RelationType) (*graph.TraversalResult, error) {
	return s.traverse.Traverse(ctx, s.q, projectID, root, depth, filter)
}
