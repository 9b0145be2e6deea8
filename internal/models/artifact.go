package models

import (
	"time"
)

// ArtifactStatus represents the lifecycle label of an ephemeral artifact
type ArtifactStatus string

const (
	ArtifactStatusDraft    ArtifactStatus = "draft"
	ArtifactStatusArchived ArtifactStatus = "archived"
)

// Artifact is a time-bounded scratch record (e.g. a generated draft). It is
// created with a forward TTL and becomes invisible to default reads once
// expired, even before the sweep archives it. DeletedAt is the authoritative
// "invisible to default reads" signal; Status is the human-facing label.
type Artifact struct {
	ID          string         `json:"id" db:"id"`
	ProjectID   string         `json:"project_id" db:"project_id"`
	Kind        string         `json:"kind" db:"kind"`
	Status      ArtifactStatus `json:"status" db:"status"`
	Content     string         `json:"content" db:"content"`
	ContentHash string         `json:"content_hash,omitempty" db:"content_hash"`
	SourceRefs  []string       `json:"source_refs,omitempty" db:"-"` // stored as jsonb
	CreatedBy   Actor          `json:"created_by" db:"created_by"`
	ExpiresAt   time.Time      `json:"expires_at" db:"expires_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateArtifactRequest is the API request to create an ephemeral artifact
type CreateArtifactRequest struct {
	Kind       string   `json:"kind"`
	Content    string   `json:"content"`
	SourceRefs []string `json:"source_refs,omitempty"`
	CreatedBy  Actor    `json:"created_by,omitempty"`
}
