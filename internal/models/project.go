package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is scoped to exactly one workspace; reads and writes are gated by
// the actor's membership in that workspace.
type Project struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	WorkspaceID uuid.UUID  `json:"workspace_id" db:"workspace_id"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
