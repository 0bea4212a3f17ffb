package repositories

import (
	"context"

	"collabhub/internal/models"

	"github.com/google/uuid"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *models.Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
	// Delete removes the row outright. Only the compensating rollback in
	// workspace creation uses it; user-facing deletion is the soft kind.
	Delete(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Workspace, error)
}

type workspaceRepo struct {
	db Database
}

func NewWorkspaceRepo(db Database) WorkspaceRepository {
	return &workspaceRepo{db: db}
}

func (r *workspaceRepo) Create(ctx context.Context, workspace *models.Workspace) error {
	query := `
		INSERT INTO workspaces (id, name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, workspace.ID, workspace.Name, workspace.Description, workspace.CreatedBy)
	return err
}

func (r *workspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at, deleted_at
		FROM workspaces
		WHERE id = $1 AND deleted_at IS NULL
	`
	ws := &models.Workspace{}
	err := r.db.QueryRow(ctx, query, id).
		Scan(&ws.ID, &ws.Name, &ws.Description, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt, &ws.DeletedAt)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *workspaceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspaces WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *workspaceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE workspaces SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *workspaceRepo) List(ctx context.Context, limit, offset int) ([]*models.Workspace, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at, deleted_at
		FROM workspaces
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*models.Workspace
	for rows.Next() {
		ws := &models.Workspace{}
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt, &ws.DeletedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}
