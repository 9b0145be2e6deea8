package graph

import (
	"context"
	"fmt"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
)

// lookupFunc resolves one node kind's id to its owning project id.
// It returns "" with a nil error when no such row exists.
type lookupFunc func(ctx context.Context, q database.Querier, id string) (string, error)

// Resolver maps a (kind, id) pair to the owning project id. It is the single
// place that knows how each node kind is physically stored. The lookup map
// is built once at startup and never mutated afterwards.
type Resolver struct {
	lookups map[models.Kind]lookupFunc
}

// NewResolver builds the kind lookup map from the entity and auxiliary node
// repositories. It panics if the relation vocabulary references a kind the
// map cannot resolve: that mismatch is a deployment defect, not a runtime
// condition.
func NewResolver(entities repository.EntityRepository, nodes repository.NodeRepository) *Resolver {
	lookups := make(map[models.Kind]lookupFunc)

	for kind := range models.EntityKinds {
		k := kind
		lookups[k] = func(ctx context.Context, q database.Querier, id string) (string, error) {
			return entities.ProjectID(ctx, q, k, id)
		}
	}
	for kind := range models.AuxiliaryKinds {
		k := kind
		lookups[k] = func(ctx context.Context, q database.Querier, id string) (string, error) {
			return nodes.ProjectID(ctx, q, k, id)
		}
	}

	for kind := range VocabularyKinds() {
		if _, ok := lookups[kind]; !ok {
			panic(fmt.Sprintf("relation vocabulary references unresolvable kind %q", kind))
		}
	}

	return &Resolver{lookups: lookups}
}

// ResolveProjectID returns the project id owning the (kind, id) record.
// An unrecognized kind is ErrUnsupportedKind; a recognized kind with no
// matching row is ErrNotFound.
func (r *Resolver) ResolveProjectID(ctx context.Context, q database.Querier, kind models.Kind, id string) (string, error) {
	lookup, ok := r.lookups[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedKind, kind)
	}

	projectID, err := lookup(ctx, q, id)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s %s: %w", kind, id, err)
	}
	if projectID == "" {
		return "", fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return projectID, nil
}
