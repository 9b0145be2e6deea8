package models

import (
	"time"
)

// EventType identifies a ledger entry's cause. The set is closed; the ledger
// rejects types outside it.
type EventType string

const (
	EventEntityCreated          EventType = "ENTITY_CREATED"
	EventEntityPublishRequested EventType = "ENTITY_PUBLISH_REQUESTED"
	EventEntityPublished        EventType = "ENTITY_PUBLISHED"
	EventEntityArchived         EventType = "ENTITY_ARCHIVED"
	EventEntityValidationFailed EventType = "ENTITY_VALIDATION_FAILED"
	EventRelationCreated        EventType = "RELATION_CREATED"
	EventRelationNotesUpdated   EventType = "RELATION_NOTES_UPDATED"
	EventArtifactCreated        EventType = "ARTIFACT_CREATED"
	EventArtifactArchived       EventType = "ARTIFACT_ARCHIVED"
	EventArtifactExpired        EventType = "ARTIFACT_EXPIRED"
	EventSourceItemTriaged      EventType = "SOURCE_ITEM_TRIAGED"
)

// ValidEventTypes defines the closed event vocabulary
var ValidEventTypes = map[EventType]bool{
	EventEntityCreated:          true,
	EventEntityPublishRequested: true,
	EventEntityPublished:        true,
	EventEntityArchived:         true,
	EventEntityValidationFailed: true,
	EventRelationCreated:        true,
	EventRelationNotesUpdated:   true,
	EventArtifactCreated:        true,
	EventArtifactArchived:       true,
	EventArtifactExpired:        true,
	EventSourceItemTriaged:      true,
}

// Actor identifies who caused a state-changing action
type Actor string

const (
	ActorHuman  Actor = "human"
	ActorLLM    Actor = "llm"
	ActorSystem Actor = "system"
)

// ValidActors defines allowed event actors
var ValidActors = map[Actor]bool{
	ActorHuman:  true,
	ActorLLM:    true,
	ActorSystem: true,
}

// Event is an append-only ledger entry. Events are never updated or deleted
// and are written in the same transaction as the mutation they record.
type Event struct {
	ID         string                 `json:"id" db:"id"`
	ProjectID  string                 `json:"project_id" db:"project_id"`
	EventType  EventType              `json:"event_type" db:"event_type"`
	EntityKind Kind                   `json:"entity_kind" db:"entity_kind"`
	EntityID   string                 `json:"entity_id" db:"entity_id"`
	Actor      Actor                  `json:"actor" db:"actor"`
	Details    map[string]interface{} `json:"details,omitempty" db:"-"` // stored as jsonb
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
}
