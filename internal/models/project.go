package models

import (
	"time"
)

// Project is the root of the partitioning scheme. Every other record owns a
// reference to exactly one project, fixed at creation.
type Project struct {
	ID        string    `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
