package models

// Kind discriminates which node table an id belongs to. The set is closed;
// extending it requires extending the resolver lookup map in the same change.
type Kind string

const (
	KindGuide             Kind = "guide"
	KindConcept           Kind = "concept"
	KindProject           Kind = "project"
	KindNews              Kind = "news"
	KindSourceItem        Kind = "sourceItem"
	KindSourceFeed        Kind = "sourceFeed"
	KindDistributionEvent Kind = "distributionEvent"
	KindVideo             Kind = "video"
	KindMetricSnapshot    Kind = "metricSnapshot"
)

// Ledger-only kinds. These name record kinds in event rows but are not
// graph node kinds: they never appear as edge endpoints and the resolver
// does not know them.
const (
	KindRelation Kind = "relation"
	KindArtifact Kind = "artifact"
)

// EntityKinds are the node kinds stored in the entities table,
// discriminated by entity_type.
var EntityKinds = map[Kind]bool{
	KindGuide:   true,
	KindConcept: true,
	KindProject: true,
	KindNews:    true,
}

// AuxiliaryKinds are the node kinds stored in their own tables.
var AuxiliaryKinds = map[Kind]bool{
	KindSourceItem:        true,
	KindSourceFeed:        true,
	KindDistributionEvent: true,
	KindVideo:             true,
	KindMetricSnapshot:    true,
}

// NodeRef identifies a node in the relationship graph.
type NodeRef struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// Less orders node refs lexicographically by (kind, id). Used to make
// traversal fan-out order deterministic.
func (n NodeRef) Less(other NodeRef) bool {
	if n.Kind != other.Kind {
		return n.Kind < other.Kind
	}
	return n.ID < other.ID
}
