package services

import (
	"context"

	"collabhub/internal/authz"
	"collabhub/internal/common"
	"collabhub/internal/models"
	"collabhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WorkspaceService orchestrates workspace lifecycle and membership
// management. Every operation re-resolves the actor's membership row; there
// is no global ADMIN override on workspace-scoped actions.
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, ownerID uuid.UUID, name string, description *string) (*models.Workspace, error)
	GetWorkspaceByID(ctx context.Context, actor *models.User, workspaceID uuid.UUID) (*models.Workspace, error)
	AddMember(ctx context.Context, actor *models.User, workspaceID uuid.UUID, email string, role models.WorkspaceRole) (*models.WorkspaceMembership, error)
	RemoveMember(ctx context.Context, actor *models.User, workspaceID uuid.UUID, email string) (*models.WorkspaceMembership, error)
	UpdateMemberRole(ctx context.Context, actor *models.User, workspaceID uuid.UUID, email string, role models.WorkspaceRole) (*models.WorkspaceMembership, error)
	// ListWorkspaces is gated as ADMIN-only at the caller layer.
	ListWorkspaces(ctx context.Context, limit, offset int) ([]*models.Workspace, error)
}

type workspaceService struct {
	workspaceRepo  repositories.WorkspaceRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	logger         zerolog.Logger
}

func NewWorkspaceService(workspaceRepo repositories.WorkspaceRepository, membershipRepo repositories.MembershipRepository, userRepo repositories.UserRepository, logger zerolog.Logger) WorkspaceService {
	return &workspaceService{
		workspaceRepo:  workspaceRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// CreateWorkspace inserts the workspace and its OWNER membership. If the
// membership insert fails, the workspace insert is compensated with a delete
// so no orphan workspace survives. The rollback runs on a non-cancelable
// context: a client disconnect must not leave the sequence half-applied.
func (s *workspaceService) CreateWorkspace(ctx context.Context, ownerID uuid.UUID, name string, description *string) (*models.Workspace, error) {
	if name == "" {
		return nil, common.Validation(map[string]string{"name": "name is required"})
	}

	workspace := &models.Workspace{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedBy:   ownerID,
	}
	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		s.logger.Error().Err(err).Msg("failed to create workspace")
		return nil, common.Internal(err)
	}

	membership := &models.WorkspaceMembership{
		ID:          uuid.New(),
		WorkspaceID: workspace.ID,
		UserID:      ownerID,
		Role:        models.WorkspaceOwner,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		s.logger.Error().Err(err).Str("workspace_id", workspace.ID.String()).Msg("failed to create owner membership, rolling back workspace")
		rollbackCtx := context.WithoutCancel(ctx)
		if delErr := s.workspaceRepo.Delete(rollbackCtx, workspace.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("workspace_id", workspace.ID.String()).Msg("compensating workspace delete failed")
		}
		return nil, common.Internal(err)
	}

	s.logger.Info().
		Str("workspace_id", workspace.ID.String()).
		Str("owner_id", ownerID.String()).
		Msg("workspace created")
	return workspace, nil
}

func (s *workspaceService) GetWorkspaceByID(ctx context.Context, actor *models.User, workspaceID uuid.UUID) (*models.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.NotFound("Workspace not found")
		}
		return nil, common.Internal(err)
	}

	membership, err := s.resolveMembership(ctx, actor.ID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckWorkspace(membership, authz.ActionRead, authz.EntityWorkspace); err != nil {
		return nil, err
	}

	return workspace, nil
}

func (s *workspaceService) AddMember(ctx context.Context, actor *models.User, workspaceID uuid.UUID, email string, role models.WorkspaceRole) (*models.WorkspaceMembership, error) {
	if !role.Valid() {
		return nil, common.Validation(map[string]string{"role": "unknown workspace role"})
	}

	actorMembership, err := s.resolveMembership(ctx, actor.ID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckWorkspace(actorMembership, authz.ActionCreate, authz.EntityMember); err != nil {
		return nil, err
	}

	target, err := s.targetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	membership := &models.WorkspaceMembership{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		UserID:      target.ID,
		Role:        role,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, common.AsAppError(err)
	}

	s.logger.Info().
		Str("workspace_id", workspaceID.String()).
		Str("user_id", target.ID.String()).
		Str("role", string(role)).
		Msg("workspace member added")
	return membership, nil
}

func (s *workspaceService) RemoveMember(ctx context.Context, actor *models.User, workspaceID uuid.UUID, email string) (*models.WorkspaceMembership, error) {
	actorMembership, err := s.resolveMembership(ctx, actor.ID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckWorkspace(actorMembership, authz.ActionDelete, authz.EntityMember); err != nil {
		return nil, err
	}

	target, err := s.targetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	membership, err := s.resolveMembership(ctx, target.ID, workspaceID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, common.BadRequest("User is not a member of the workspace")
	}

	if err := s.membershipRepo.Delete(ctx, membership.ID); err != nil {
		return nil, common.Internal(err)
	}

	s.logger.Info().
		Str("workspace_id", workspaceID.String()).
		Str("user_id", target.ID.String()).
		Msg("workspace member removed")
	return membership, nil
}

func (s *workspaceService) UpdateMemberRole(ctx context.Context, actor *models.User, workspaceID uuid.UUID, email string, role models.WorkspaceRole) (*models.WorkspaceMembership, error) {
	if !role.Valid() {
		return nil, common.Validation(map[string]string{"role": "unknown workspace role"})
	}

	actorMembership, err := s.resolveMembership(ctx, actor.ID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckWorkspace(actorMembership, authz.ActionUpdate, authz.EntityMember); err != nil {
		return nil, err
	}

	target, err := s.targetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	membership, err := s.resolveMembership(ctx, target.ID, workspaceID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, common.BadRequest("User is not a member of the workspace")
	}

	if err := s.membershipRepo.UpdateRole(ctx, membership.ID, role); err != nil {
		return nil, common.Internal(err)
	}
	membership.Role = role

	s.logger.Info().
		Str("workspace_id", workspaceID.String()).
		Str("user_id", target.ID.String()).
		Str("role", string(role)).
		Msg("workspace member role updated")
	return membership, nil
}

func (s *workspaceService) ListWorkspaces(ctx context.Context, limit, offset int) ([]*models.Workspace, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	workspaces, err := s.workspaceRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, common.Internal(err)
	}
	return workspaces, nil
}

// resolveMembership loads a membership row. Absence comes back as (nil, nil)
// for the permission gate to deny; a storage failure is an internal error and
// must never read as "no permission".
func (s *workspaceService) resolveMembership(ctx context.Context, userID, workspaceID uuid.UUID) (*models.WorkspaceMembership, error) {
	membership, err := s.membershipRepo.GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		s.logger.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("membership lookup failed")
		return nil, common.Internal(err)
	}
	return membership, nil
}

func (s *workspaceService) targetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.BadRequest("User not found")
		}
		return nil, common.Internal(err)
	}
	return user, nil
}
