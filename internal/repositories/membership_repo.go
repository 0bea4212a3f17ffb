package repositories

import (
	"context"

	"collabhub/internal/common"
	"collabhub/internal/models"

	"github.com/google/uuid"
)

type MembershipRepository interface {
	Create(ctx context.Context, membership *models.WorkspaceMembership) error
	// GetByUserAndWorkspace returns (nil, nil) when the user has no membership
	// row for the workspace. Callers must not treat a storage error as "no
	// permission"; absence and failure are distinct outcomes.
	GetByUserAndWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*models.WorkspaceMembership, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.WorkspaceRole) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*models.WorkspaceMembership, error)
}

type membershipRepo struct {
	db Database
}

func NewMembershipRepo(db Database) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Create(ctx context.Context, membership *models.WorkspaceMembership) error {
	query := `
		INSERT INTO workspace_memberships (id, workspace_id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, membership.ID, membership.WorkspaceID, membership.UserID, membership.Role)
	if isUniqueViolation(err) {
		return common.BadRequest("User is already a member of the workspace")
	}
	return err
}

func (r *membershipRepo) GetByUserAndWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*models.WorkspaceMembership, error) {
	query := `
		SELECT id, workspace_id, user_id, role, created_at, updated_at
		FROM workspace_memberships
		WHERE user_id = $1 AND workspace_id = $2
	`
	m := &models.WorkspaceMembership{}
	err := r.db.QueryRow(ctx, query, userID, workspaceID).
		Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepo) UpdateRole(ctx context.Context, id uuid.UUID, role models.WorkspaceRole) error {
	query := `UPDATE workspace_memberships SET role = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, role, id)
	return err
}

func (r *membershipRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspace_memberships WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *membershipRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*models.WorkspaceMembership, error) {
	query := `
		SELECT id, workspace_id, user_id, role, created_at, updated_at
		FROM workspace_memberships
		WHERE workspace_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*models.WorkspaceMembership
	for rows.Next() {
		m := &models.WorkspaceMembership{}
		if err := rows.Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
