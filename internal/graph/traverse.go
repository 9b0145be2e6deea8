package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
)

// MaxDepth bounds traversal expansion
const MaxDepth = 2

// TraversalResult is the deterministic output of a graph traversal.
// Repeated runs against unchanged data produce byte-identical results:
// downstream tooling diffs these.
type TraversalResult struct {
	Root  models.NodeRef         `json:"root"`
	Nodes []models.NodeRef       `json:"nodes"`
	Edges []*models.RelationEdge `json:"edges"`
}

// Traverser performs depth-bounded breadth-first expansion over committed
// edges. It only reads; it relies on the write path having already enforced
// edge integrity.
type Traverser struct {
	relations repository.RelationRepository
	resolver  *Resolver
}

// NewTraverser creates a traversal engine
func NewTraverser(relations repository.RelationRepository, resolver *Resolver) *Traverser {
	return &Traverser{relations: relations, resolver: resolver}
}

// Traverse expands from root up to depth hops, optionally restricted to one
// relation type. A root that does not exist, or that belongs to a project
// other than projectID, is reported as not found.
func (t *Traverser) Traverse(ctx context.Context, q database.Querier, projectID string, root models.NodeRef, depth int, filter models.RelationType) (*TraversalResult, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("depth must be between 1 and %d, got %d", MaxDepth, depth)
	}

	rootProject, err := t.resolver.ResolveProjectID(ctx, q, root.Kind, root.ID)
	if err != nil {
		return nil, err
	}
	if rootProject != projectID {
		// Non-disclosure: a foreign-project root looks absent.
		return nil, fmt.Errorf("%s %s: %w", root.Kind, root.ID, models.ErrNotFound)
	}

	result := &TraversalResult{
		Root:  root,
		Nodes: []models.NodeRef{root},
	}
	visited := map[models.NodeRef]bool{root: true}
	seenEdges := make(map[string]bool)
	frontier := []models.NodeRef{root}

	for hop := 0; hop < depth; hop++ {
		// Lexicographic fan-out order keeps the expansion, and therefore
		// the output, deterministic.
		sort.Slice(frontier, func(i, j int) bool { return frontier[i].Less(frontier[j]) })

		var next []models.NodeRef
		for _, node := range frontier {
			edges, err := t.relations.ListByEndpoint(ctx, projectID, node, filter)
			if err != nil {
				return nil, fmt.Errorf("failed to expand %s %s: %w", node.Kind, node.ID, err)
			}

			for _, edge := range edges {
				// First occurrence wins.
				if !seenEdges[edge.ID] {
					seenEdges[edge.ID] = true
					result.Edges = append(result.Edges, edge)
				}

				opposite, ok := edge.Opposite(node)
				if !ok || visited[opposite] {
					continue
				}
				visited[opposite] = true
				result.Nodes = append(result.Nodes, opposite)
				next = append(next, opposite)
			}
		}
		frontier = next
	}

	// The collected set also sorts globally by (created_at desc, id desc),
	// not just within each node's expansion.
	sort.Slice(result.Edges, func(i, j int) bool {
		a, b := result.Edges[i], result.Edges[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return result, nil
}

// IsNotFound reports whether a traversal error is the not-found shape
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
