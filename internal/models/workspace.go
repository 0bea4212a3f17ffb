package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkspaceRole is the per-workspace privilege level recorded in a membership row.
// Membership rows are the sole source of workspace-scoped authorization.
type WorkspaceRole string

const (
	WorkspaceOwner  WorkspaceRole = "OWNER"
	WorkspaceMember WorkspaceRole = "MEMBER"
	WorkspaceViewer WorkspaceRole = "VIEWER"
)

func (r WorkspaceRole) Valid() bool {
	return r == WorkspaceOwner || r == WorkspaceMember || r == WorkspaceViewer
}

type Workspace struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// WorkspaceMembership binds a user to a workspace with a scoped role.
// A workspace is created with exactly one OWNER membership (its creator).
type WorkspaceMembership struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	WorkspaceID uuid.UUID     `json:"workspace_id" db:"workspace_id"`
	UserID      uuid.UUID     `json:"user_id" db:"user_id"`
	Role        WorkspaceRole `json:"role" db:"role"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}
