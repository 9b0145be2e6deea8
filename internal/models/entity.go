package models

import (
	"time"
)

// EntityStatus represents the lifecycle status of a content entity
type EntityStatus string

const (
	StatusDraft            EntityStatus = "draft"
	StatusPublishRequested EntityStatus = "publish_requested"
	StatusPublished        EntityStatus = "published"
	StatusArchived         EntityStatus = "archived"
)

// ValidStatuses defines allowed content entity statuses
var ValidStatuses = map[EntityStatus]bool{
	StatusDraft:            true,
	StatusPublishRequested: true,
	StatusPublished:        true,
	StatusArchived:         true,
}

// ContentEntity represents a guide, concept, project page, or news item.
// (project_id, entity_type, slug) is unique.
type ContentEntity struct {
	ID             string       `json:"id" db:"id"`
	ProjectID      string       `json:"project_id" db:"project_id"`
	EntityType     Kind         `json:"entity_type" db:"entity_type"`
	Title          string       `json:"title" db:"title"`
	Slug           string       `json:"slug" db:"slug"`
	Status         EntityStatus `json:"status" db:"status"`
	ConceptKind    string       `json:"concept_kind,omitempty" db:"concept_kind"`
	RepoURL        string       `json:"repo_url,omitempty" db:"repo_url"`
	CanonicalURL   string       `json:"canonical_url,omitempty" db:"canonical_url"`
	ContentRef     string       `json:"content_ref,omitempty" db:"content_ref"`
	PublishedAt    *time.Time   `json:"published_at,omitempty" db:"published_at"`
	ArchivedAt     *time.Time   `json:"archived_at,omitempty" db:"archived_at"`
	LastVerifiedAt *time.Time   `json:"last_verified_at,omitempty" db:"last_verified_at"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// Ref returns the entity's node reference for graph operations.
func (e *ContentEntity) Ref() NodeRef {
	return NodeRef{Kind: e.EntityType, ID: e.ID}
}

// CreateEntityRequest is the API request to create a content entity
type CreateEntityRequest struct {
	EntityType   Kind   `json:"entity_type"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	ConceptKind  string `json:"concept_kind,omitempty"`
	RepoURL      string `json:"repo_url,omitempty"`
	CanonicalURL string `json:"canonical_url,omitempty"`
	ContentRef   string `json:"content_ref,omitempty"`
	Actor        Actor  `json:"actor,omitempty"`
}
