package authz

import (
	"testing"

	"collabhub/internal/common"
	"collabhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func membershipWithRole(role models.WorkspaceRole) *models.WorkspaceMembership {
	return &models.WorkspaceMembership{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		UserID:      uuid.New(),
		Role:        role,
	}
}

func TestCheckWorkspace_PolicyMatrix(t *testing.T) {
	tests := []struct {
		name    string
		role    models.WorkspaceRole
		action  Action
		entity  Entity
		allowed bool
	}{
		{"owner deletes workspace", models.WorkspaceOwner, ActionDelete, EntityWorkspace, true},
		{"owner manages members", models.WorkspaceOwner, ActionUpdate, EntityMember, true},
		{"owner creates project", models.WorkspaceOwner, ActionCreate, EntityProject, true},
		{"owner creates task", models.WorkspaceOwner, ActionCreate, EntityTask, true},
		{"member reads workspace", models.WorkspaceMember, ActionRead, EntityWorkspace, true},
		{"member creates project", models.WorkspaceMember, ActionCreate, EntityProject, true},
		{"member deletes task", models.WorkspaceMember, ActionDelete, EntityTask, true},
		{"member cannot update workspace", models.WorkspaceMember, ActionUpdate, EntityWorkspace, false},
		{"member cannot add members", models.WorkspaceMember, ActionCreate, EntityMember, false},
		{"member cannot remove members", models.WorkspaceMember, ActionDelete, EntityMember, false},
		{"viewer reads workspace", models.WorkspaceViewer, ActionRead, EntityWorkspace, true},
		{"viewer cannot read project", models.WorkspaceViewer, ActionRead, EntityProject, false},
		{"viewer cannot create project", models.WorkspaceViewer, ActionCreate, EntityProject, false},
		{"viewer cannot manage members", models.WorkspaceViewer, ActionCreate, EntityMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWorkspace(membershipWithRole(tt.role), tt.action, tt.entity)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				appErr := common.AsAppError(err)
				assert.Equal(t, common.KindUnauthorized, appErr.Kind)
			}
		})
	}
}

func TestCheckWorkspace_NilMembershipDeniedEverything(t *testing.T) {
	for _, entity := range []Entity{EntityWorkspace, EntityProject, EntityTask, EntityMember} {
		for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
			err := CheckWorkspace(nil, action, entity)
			appErr := common.AsAppError(err)
			assert.Equal(t, common.KindUnauthorized, appErr.Kind)
		}
	}
}

func TestCheckWorkspace_UnknownRoleDenied(t *testing.T) {
	err := CheckWorkspace(membershipWithRole(models.WorkspaceRole("SUPERUSER")), ActionRead, EntityWorkspace)

	appErr := common.AsAppError(err)
	assert.Equal(t, common.KindUnauthorized, appErr.Kind)
}
