package authz

import (
	"collabhub/internal/common"
	"collabhub/internal/models"
)

// Action is an operation on a workspace-scoped entity.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entity is the workspace-scoped resource class an action targets.
type Entity string

const (
	EntityWorkspace Entity = "Workspace"
	EntityProject   Entity = "Project"
	EntityTask      Entity = "Task"
	EntityMember    Entity = "Member"
)

type grant struct {
	action Action
	entity Entity
}

type grantSet map[grant]struct{}

func grants(pairs ...grant) grantSet {
	set := make(grantSet, len(pairs))
	for _, p := range pairs {
		set[p] = struct{}{}
	}
	return set
}

func crud(entity Entity) []grant {
	return []grant{
		{ActionCreate, entity},
		{ActionRead, entity},
		{ActionUpdate, entity},
		{ActionDelete, entity},
	}
}

// policy maps a workspace role to its permitted (action, entity) pairs.
// Policy changes are additive data edits here, never control-flow rewrites.
// A user with no membership row has the zero grant set; there is no global
// ADMIN override on workspace-scoped actions.
var policy = map[models.WorkspaceRole]grantSet{
	models.WorkspaceOwner: grants(append(append(append(
		crud(EntityWorkspace),
		crud(EntityMember)...),
		crud(EntityProject)...),
		crud(EntityTask)...)...),
	models.WorkspaceMember: grants(append(append(
		[]grant{{ActionRead, EntityWorkspace}},
		crud(EntityProject)...),
		crud(EntityTask)...)...),
	models.WorkspaceViewer: grants(grant{ActionRead, EntityWorkspace}),
}

// CheckWorkspace decides whether the actor's membership permits action on
// entity. A nil membership means the actor has no row for the workspace and
// is denied everything, regardless of global role. Callers resolve the
// membership (or confirm its absence) before calling; a failed membership
// fetch is an internal error at the call site, never a permission denial.
func CheckWorkspace(membership *models.WorkspaceMembership, action Action, entity Entity) error {
	if membership == nil {
		return common.Unauthorized("User is not a member of the workspace")
	}
	allowed, ok := policy[membership.Role]
	if !ok {
		return common.Unauthorized("")
	}
	if _, ok := allowed[grant{action, entity}]; !ok {
		return common.Unauthorized("")
	}
	return nil
}
