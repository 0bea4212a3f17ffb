package services

import (
	"context"
	"testing"

	"collabhub/internal/common"
	"collabhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	mockProjectRepo    *MockProjectRepository
	mockMembershipRepo *MockMembershipRepository
	service            ProjectService
	ctx                context.Context
	member             *models.User
	viewer             *models.User
	workspaceID        uuid.UUID
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.mockProjectRepo = &MockProjectRepository{}
	suite.mockMembershipRepo = &MockMembershipRepository{}
	suite.service = NewProjectService(suite.mockProjectRepo, suite.mockMembershipRepo, zerolog.Nop())
	suite.ctx = context.Background()

	suite.member = &models.User{ID: uuid.New(), Role: models.RoleUser, Status: models.StatusActive}
	suite.viewer = &models.User{ID: uuid.New(), Role: models.RoleUser, Status: models.StatusActive}
	suite.workspaceID = uuid.New()
}

func (suite *ProjectServiceTestSuite) expectMembership(user *models.User, role models.WorkspaceRole) {
	suite.mockMembershipRepo.On("GetByUserAndWorkspace", suite.ctx, user.ID, suite.workspaceID).
		Return(&models.WorkspaceMembership{
			ID:          uuid.New(),
			WorkspaceID: suite.workspaceID,
			UserID:      user.ID,
			Role:        role,
		}, nil)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_MemberCanCreate() {
	suite.expectMembership(suite.member, models.WorkspaceMember)
	suite.mockProjectRepo.On("Create", suite.ctx, mock.MatchedBy(func(p *models.Project) bool {
		return p.Title == "Roadmap" && p.WorkspaceID == suite.workspaceID && p.CreatedBy == suite.member.ID
	})).Return(nil)

	project, err := suite.service.CreateProject(suite.ctx, suite.member, suite.workspaceID, "Roadmap", nil)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Roadmap", project.Title)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCreateProject_ViewerDenied() {
	suite.expectMembership(suite.viewer, models.WorkspaceViewer)

	_, err := suite.service.CreateProject(suite.ctx, suite.viewer, suite.workspaceID, "Roadmap", nil)

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindUnauthorized, appErr.Kind)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_EmptyTitle() {
	_, err := suite.service.CreateProject(suite.ctx, suite.member, suite.workspaceID, "", nil)

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindValidation, appErr.Kind)
}

func (suite *ProjectServiceTestSuite) TestGetProjectByID_GatedByProjectWorkspace() {
	project := &models.Project{ID: uuid.New(), Title: "Roadmap", WorkspaceID: suite.workspaceID}
	suite.mockProjectRepo.On("GetByID", suite.ctx, project.ID).Return(project, nil)
	suite.expectMembership(suite.member, models.WorkspaceMember)

	result, err := suite.service.GetProjectByID(suite.ctx, suite.member, project.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), project.ID, result.ID)
}

func (suite *ProjectServiceTestSuite) TestGetProjectByID_NonMemberDenied() {
	project := &models.Project{ID: uuid.New(), Title: "Roadmap", WorkspaceID: suite.workspaceID}
	suite.mockProjectRepo.On("GetByID", suite.ctx, project.ID).Return(project, nil)
	suite.mockMembershipRepo.On("GetByUserAndWorkspace", suite.ctx, suite.member.ID, suite.workspaceID).
		Return(nil, nil)

	_, err := suite.service.GetProjectByID(suite.ctx, suite.member, project.ID)

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindUnauthorized, appErr.Kind)
}

func (suite *ProjectServiceTestSuite) TestGetProjectByID_NotFound() {
	missing := uuid.New()
	suite.mockProjectRepo.On("GetByID", suite.ctx, missing).Return(nil, pgx.ErrNoRows)

	_, err := suite.service.GetProjectByID(suite.ctx, suite.member, missing)

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindNotFound, appErr.Kind)
}

func (suite *ProjectServiceTestSuite) TestListProjects_ViewerCannotList() {
	// Viewers hold read on Workspace only; project reads need MEMBER or OWNER.
	suite.expectMembership(suite.viewer, models.WorkspaceViewer)

	_, err := suite.service.ListProjects(suite.ctx, suite.viewer, suite.workspaceID, 10, 0)

	appErr := common.AsAppError(err)
	assert.Equal(suite.T(), common.KindUnauthorized, appErr.Kind)
}

func (suite *ProjectServiceTestSuite) TestListProjects_Success() {
	suite.expectMembership(suite.member, models.WorkspaceMember)
	suite.mockProjectRepo.On("ListByWorkspace", suite.ctx, suite.workspaceID, 10, 0).
		Return([]*models.Project{{ID: uuid.New(), WorkspaceID: suite.workspaceID}}, nil)

	projects, err := suite.service.ListProjects(suite.ctx, suite.member, suite.workspaceID, 10, 0)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), projects, 1)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
