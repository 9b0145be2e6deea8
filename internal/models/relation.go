package models

import (
	"time"
)

// RelationType identifies the semantic of a directed edge. The set of valid
// types per endpoint kind pair is the closed vocabulary in internal/graph.
type RelationType string

const (
	RelGuideUsesConcept        RelationType = "GUIDE_USES_CONCEPT"
	RelGuideExpandsConcept     RelationType = "GUIDE_EXPANDS_CONCEPT"
	RelGuideRelatedToGuide     RelationType = "GUIDE_RELATED_TO_GUIDE"
	RelGuideHasVideo           RelationType = "GUIDE_HAS_VIDEO"
	RelConceptRelatedToConcept RelationType = "CONCEPT_RELATED_TO_CONCEPT"
	RelProjectAppliesConcept   RelationType = "PROJECT_APPLIES_CONCEPT"
	RelProjectFollowsGuide     RelationType = "PROJECT_FOLLOWS_GUIDE"
	RelNewsMentionsConcept     RelationType = "NEWS_MENTIONS_CONCEPT"
	RelNewsMentionsProject     RelationType = "NEWS_MENTIONS_PROJECT"
	RelNewsDerivedFromSource   RelationType = "NEWS_DERIVED_FROM_SOURCE"
	RelNewsDistributedAs       RelationType = "NEWS_DISTRIBUTED_AS"
	RelSourceItemFromFeed      RelationType = "SOURCE_ITEM_FROM_FEED"
	RelSnapshotOf              RelationType = "SNAPSHOT_OF"
)

// RelationEdge is a directed, typed, project-scoped link between two nodes.
// Endpoints are weak references: the edge does not own its nodes. Edges are
// immutable after creation except for Notes.
// (project_id, from_kind, from_id, relation_type, to_kind, to_id) is unique.
type RelationEdge struct {
	ID           string       `json:"id" db:"id"`
	ProjectID    string       `json:"project_id" db:"project_id"`
	FromKind     Kind         `json:"from_kind" db:"from_kind"`
	FromID       string       `json:"from_id" db:"from_id"`
	RelationType RelationType `json:"relation_type" db:"relation_type"`
	ToKind       Kind         `json:"to_kind" db:"to_kind"`
	ToID         string       `json:"to_id" db:"to_id"`
	Notes        string       `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// From returns the edge's source node reference.
func (e *RelationEdge) From() NodeRef {
	return NodeRef{Kind: e.FromKind, ID: e.FromID}
}

// To returns the edge's target node reference.
func (e *RelationEdge) To() NodeRef {
	return NodeRef{Kind: e.ToKind, ID: e.ToID}
}

// Opposite returns the endpoint of the edge that is not n. The second return
// is false when n is not an endpoint of the edge.
func (e *RelationEdge) Opposite(n NodeRef) (NodeRef, bool) {
	switch n {
	case e.From():
		return e.To(), true
	case e.To():
		return e.From(), true
	}
	return NodeRef{}, false
}

// CreateEdgeRequest is the API request to create a relation edge
type CreateEdgeRequest struct {
	FromKind     Kind         `json:"from_kind"`
	FromID       string       `json:"from_id"`
	RelationType RelationType `json:"relation_type"`
	ToKind       Kind         `json:"to_kind"`
	ToID         string       `json:"to_id"`
	Notes        string       `json:"notes,omitempty"`
	Actor        Actor        `json:"actor,omitempty"`
}
