package models

import (
	"time"
)

// TriageStatus represents the triage state of a captured source item
type TriageStatus string

const (
	TriagePending  TriageStatus = "pending"
	TriageAccepted TriageStatus = "accepted"
	TriageRejected TriageStatus = "rejected"
)

// ValidTriageStatuses defines allowed source-item triage statuses
var ValidTriageStatuses = map[TriageStatus]bool{
	TriagePending:  true,
	TriageAccepted: true,
	TriageRejected: true,
}

// SourceItem is a captured external source (e.g. a crawled page) awaiting triage
type SourceItem struct {
	ID           string       `json:"id" db:"id"`
	ProjectID    string       `json:"project_id" db:"project_id"`
	FeedID       string       `json:"feed_id,omitempty" db:"feed_id"`
	URL          string       `json:"url" db:"url"`
	Title        string       `json:"title" db:"title"`
	TriageStatus TriageStatus `json:"triage_status" db:"triage_status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// SourceFeed is a registered origin that source items are captured from
type SourceFeed struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	URL       string    `json:"url" db:"url"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DistributionEvent records content being pushed to an external channel
type DistributionEvent struct {
	ID          string    `json:"id" db:"id"`
	ProjectID   string    `json:"project_id" db:"project_id"`
	Channel     string    `json:"channel" db:"channel"`
	ExternalRef string    `json:"external_ref,omitempty" db:"external_ref"`
	OccurredAt  time.Time `json:"occurred_at" db:"occurred_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Video is an embedded or hosted video attached to content
type Video struct {
	ID           string    `json:"id" db:"id"`
	ProjectID    string    `json:"project_id" db:"project_id"`
	URL          string    `json:"url" db:"url"`
	Title        string    `json:"title" db:"title"`
	DurationSecs int       `json:"duration_secs,omitempty" db:"duration_secs"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MetricSnapshot is a point-in-time capture of an externally computed metric
type MetricSnapshot struct {
	ID         string    `json:"id" db:"id"`
	ProjectID  string    `json:"project_id" db:"project_id"`
	Metric     string    `json:"metric" db:"metric"`
	Value      float64   `json:"value" db:"value"`
	CapturedAt time.Time `json:"captured_at" db:"captured_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
