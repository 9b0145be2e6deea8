package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

// Enforcer is the write-time integrity gate for relation edges. CheckEdge
// must run inside the same transaction as the edge write so no other
// transaction can ever observe a partially-checked edge.
type Enforcer struct {
	resolver *Resolver
}

// NewEnforcer creates an integrity enforcer backed by the given resolver
func NewEnforcer(resolver *Resolver) *Enforcer {
	return &Enforcer{resolver: resolver}
}

// CheckEdge verifies that both endpoints exist and resolve to the edge's own
// project. It is purely a gate: accept or reject, no side effects.
func (e *Enforcer) CheckEdge(ctx context.Context, q database.Querier, edge *models.RelationEdge) error {
	if err := e.checkEndpoint(ctx, q, edge, "from", edge.FromKind, edge.FromID); err != nil {
		return err
	}
	return e.checkEndpoint(ctx, q, edge, "to", edge.ToKind, edge.ToID)
}

func (e *Enforcer) checkEndpoint(ctx context.Context, q database.Querier, edge *models.RelationEdge, side string, kind models.Kind, id string) error {
	projectID, err := e.resolver.ResolveProjectID(ctx, q, kind, id)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%s endpoint (%s %s): %w", side, kind, id, models.ErrDanglingEndpoint)
	}
	if err != nil {
		return err
	}
	if projectID != edge.ProjectID {
		return &models.CrossProjectError{Side: side, Kind: kind, ID: id}
	}
	return nil
}
