package models

import (
	"errors"
	"fmt"
)

// Error taxonomy for the consistency core. Integrity and uniqueness
// violations are always surfaced as structured errors, never swallowed.
var (
	// ErrNotFound signals that a record is absent (or, at the API boundary,
	// that it exists in a different project; the two are indistinguishable
	// to callers by policy).
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedKind signals the resolver was given a kind outside the
	// closed set. This is a configuration/programmer error, not a data error.
	ErrUnsupportedKind = errors.New("unsupported node kind")

	// ErrDanglingEndpoint signals an edge referencing a nonexistent node.
	ErrDanglingEndpoint = errors.New("edge endpoint does not exist")

	// ErrCrossProjectEdge signals an edge whose endpoints do not share the
	// edge's project. Use CrossProjectError to learn which side mismatched.
	ErrCrossProjectEdge = errors.New("edge endpoints cross project boundary")

	// ErrInvalidRelationType signals a relation type not permitted for the
	// edge's (fromKind, toKind) pair.
	ErrInvalidRelationType = errors.New("relation type not permitted for kind pair")

	// ErrDuplicateEdge signals an identical edge already exists. Idempotent
	// callers should treat this as non-fatal.
	ErrDuplicateEdge = errors.New("identical edge already exists")

	// ErrDuplicateSlug signals a (project, entity_type, slug) collision.
	ErrDuplicateSlug = errors.New("slug already exists for this entity type")

	// ErrInvalidStateTransition signals a lifecycle precondition unmet.
	ErrInvalidStateTransition = errors.New("invalid lifecycle transition")

	// ErrInvalidEventType signals an event type outside the closed vocabulary.
	ErrInvalidEventType = errors.New("event type not in vocabulary")
)

// CrossProjectError reports which side of an edge resolved to a project other
// than the edge's own. It deliberately does not carry the foreign project id.
type CrossProjectError struct {
	Side string // "from" or "to"
	Kind Kind
	ID   string
}

func (e *CrossProjectError) Error() string {
	return fmt.Sprintf("edge %s endpoint (%s %s) belongs to a different project", e.Side, e.Kind, e.ID)
}

// Is makes CrossProjectError match ErrCrossProjectEdge with errors.Is.
func (e *CrossProjectError) Is(target error) bool {
	return target == ErrCrossProjectEdge
}

// ValidationFailure is a single publish-readiness failure
type ValidationFailure struct {
	Category string `json:"category"` // e.g. "fields", "relationships"
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ValidationFailedError reports a rejected publish with the specific failing
// categories and codes. The rejection itself is recorded in the ledger.
type ValidationFailedError struct {
	EntityID string
	Failures []ValidationFailure
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("entity %s failed %d publish-readiness check(s)", e.EntityID, len(e.Failures))
}
