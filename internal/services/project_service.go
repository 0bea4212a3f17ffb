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

// ProjectService manages projects inside a workspace, gated by the actor's
// membership row in that workspace.
type ProjectService interface {
	CreateProject(ctx context.Context, actor *models.User, workspaceID uuid.UUID, title string, description *string) (*models.Project, error)
	GetProjectByID(ctx context.Context, actor *models.User, projectID uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, actor *models.User, workspaceID uuid.UUID, limit, offset int) ([]*models.Project, error)
}

type projectService struct {
	projectRepo    repositories.ProjectRepository
	membershipRepo repositories.MembershipRepository
	logger         zerolog.Logger
}

func NewProjectService(projectRepo repositories.ProjectRepository, membershipRepo repositories.MembershipRepository, logger zerolog.Logger) ProjectService {
	return &projectService{
		projectRepo:    projectRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

func (s *projectService) CreateProject(ctx context.Context, actor *models.User, workspaceID uuid.UUID, title string, description *string) (*models.Project, error) {
	if title == "" {
		return nil, common.Validation(map[string]string{"title": "title is required"})
	}

	membership, err := s.resolveMembership(ctx, actor.ID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckWorkspace(membership, authz.ActionCreate, authz.EntityProject); err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		WorkspaceID: workspaceID,
		CreatedBy:   actor.ID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, common.Internal(err)
	}

	s.logger.Info().
		Str("project_id", project.ID.String()).
		Str("workspace_id", workspaceID.String()).
		Msg("project created")
	return project, nil
}

func (s *projectService) GetProjectByID(ctx context.Context, actor *models.User, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.NotFound("Project not found")
		}
		return nil, common.Internal(err)
	}

	membership, err := s.resolveMembership(ctx, actor.ID, project.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckWorkspace(membership, authz.ActionRead, authz.EntityProject); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, actor *models.User, workspaceID uuid.UUID, limit, offset int) ([]*models.Project, error) {
	membership, err := s.resolveMembership(ctx, actor.ID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckWorkspace(membership, authz.ActionRead, authz.EntityProject); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	projects, err := s.projectRepo.ListByWorkspace(ctx, workspaceID, limit, offset)
	if err != nil {
		return nil, common.Internal(err)
	}
	return projects, nil
}

func (s *projectService) resolveMembership(ctx context.Context, userID, workspaceID uuid.UUID) (*models.WorkspaceMembership, error) {
	membership, err := s.membershipRepo.GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		s.logger.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("membership lookup failed")
		return nil, common.Internal(err)
	}
	return membership, nil
}
