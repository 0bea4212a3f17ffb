package graphql

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"

	"collabhub/internal/common"
	"collabhub/internal/models"
	"collabhub/internal/services"
)

// Resolver binds the schema's fields to the service layer. All authorization
// happens in the services or the require* helpers; resolvers only translate
// arguments and errors.
type Resolver struct {
	sessionSvc   services.SessionService
	resetSvc     services.PasswordResetService
	directorySvc services.DirectoryService
	workspaceSvc services.WorkspaceService
	projectSvc   services.ProjectService
	logger       zerolog.Logger
}

func NewResolver(
	sessionSvc services.SessionService,
	resetSvc services.PasswordResetService,
	directorySvc services.DirectoryService,
	workspaceSvc services.WorkspaceService,
	projectSvc services.ProjectService,
	logger zerolog.Logger,
) *Resolver {
	return &Resolver{
		sessionSvc:   sessionSvc,
		resetSvc:     resetSvc,
		directorySvc: directorySvc,
		workspaceSvc: workspaceSvc,
		projectSvc:   projectSvc,
		logger:       logger,
	}
}

// resolverError carries the typed error kind into the GraphQL error
// extensions so clients see the same codes as REST consumers.
type resolverError struct {
	*common.AppError
}

// Error returns only the outward message. The embedded AppError's Error()
// includes the wrapped cause for logging; that text must never reach a
// client, and REST serializes the bare message too.
func (e resolverError) Error() string {
	return e.Message
}

func (e resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": string(e.Kind)}
	if len(e.Fields) > 0 {
		ext["details"] = e.Fields
	}
	return ext
}

func fail(err error) (interface{}, error) {
	return nil, resolverError{common.AsAppError(err)}
}

func stringArg(p graphql.ResolveParams, name string) string {
	value, _ := p.Args[name].(string)
	return value
}

func optionalStringArg(p graphql.ResolveParams, name string) *string {
	if value, ok := p.Args[name].(string); ok {
		return &value
	}
	return nil
}

func intArg(p graphql.ResolveParams, name string, fallback int) int {
	if value, ok := p.Args[name].(int); ok {
		return value
	}
	return fallback
}

func uuidArg(p graphql.ResolveParams, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(stringArg(p, name))
	if err != nil {
		return uuid.Nil, common.BadRequest("Invalid " + name)
	}
	return id, nil
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	pair, user, err := r.sessionSvc.Login(p.Context, stringArg(p, "email"), stringArg(p, "password"))
	if err != nil {
		return fail(err)
	}
	return &authPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

func (r *Resolver) refreshToken(p graphql.ResolveParams) (interface{}, error) {
	pair, err := r.sessionSvc.Refresh(p.Context, stringArg(p, "refreshToken"))
	if err != nil {
		return fail(err)
	}
	return &authPayload{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (r *Resolver) registerUser(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.directorySvc.Register(p.Context,
		stringArg(p, "name"), stringArg(p, "email"), stringArg(p, "password"), models.RoleUser)
	if err != nil {
		return fail(err)
	}
	return user, nil
}

func (r *Resolver) forgotPassword(p graphql.ResolveParams) (interface{}, error) {
	if err := r.resetSvc.ForgotPassword(p.Context, stringArg(p, "email")); err != nil {
		return fail(err)
	}
	return true, nil
}

func (r *Resolver) resetPassword(p graphql.ResolveParams) (interface{}, error) {
	if err := r.resetSvc.ResetPassword(p.Context, stringArg(p, "token"), stringArg(p, "newPassword")); err != nil {
		return fail(err)
	}
	return true, nil
}

func (r *Resolver) updateUserStatus(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireAdmin(p.Context)
	if err != nil {
		return fail(err)
	}
	status, _ := p.Args["status"].(models.UserStatus)
	if !status.Valid() {
		return fail(common.BadRequest("Invalid user status"))
	}
	user, err := r.directorySvc.UpdateUserStatus(p.Context, stringArg(p, "email"), status, actor.ID)
	if err != nil {
		return fail(err)
	}
	return user, nil
}

func (r *Resolver) adminResetPassword(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireAdmin(p.Context)
	if err != nil {
		return fail(err)
	}
	if err := r.resetSvc.AdminResetPassword(p.Context,
		stringArg(p, "email"), stringArg(p, "newPassword"), actor.ID); err != nil {
		return fail(err)
	}
	return true, nil
}

func (r *Resolver) me(p graphql.ResolveParams) (interface{}, error) {
	user, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	return user, nil
}

func (r *Resolver) getUserByID(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	id, err := uuidArg(p, "userId")
	if err != nil {
		return fail(err)
	}
	user, err := r.directorySvc.GetUserByID(p.Context, actor, id)
	if err != nil {
		return fail(err)
	}
	return user, nil
}

func (r *Resolver) listUsers(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return fail(err)
	}
	users, err := r.directorySvc.ListUsers(p.Context, intArg(p, "limit", 50), intArg(p, "offset", 0))
	if err != nil {
		return fail(err)
	}
	return users, nil
}

func (r *Resolver) createWorkspace(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	workspace, err := r.workspaceSvc.CreateWorkspace(p.Context, actor.ID,
		stringArg(p, "name"), optionalStringArg(p, "description"))
	if err != nil {
		return fail(err)
	}
	return workspace, nil
}

func (r *Resolver) getWorkspace(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	id, err := uuidArg(p, "id")
	if err != nil {
		return fail(err)
	}
	workspace, err := r.workspaceSvc.GetWorkspaceByID(p.Context, actor, id)
	if err != nil {
		return fail(err)
	}
	return workspace, nil
}

func (r *Resolver) getAllWorkspaces(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return fail(err)
	}
	workspaces, err := r.workspaceSvc.ListWorkspaces(p.Context, intArg(p, "limit", 50), intArg(p, "offset", 0))
	if err != nil {
		return fail(err)
	}
	return workspaces, nil
}

func (r *Resolver) addWorkspaceMember(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	workspaceID, err := uuidArg(p, "workspaceId")
	if err != nil {
		return fail(err)
	}
	role, _ := p.Args["role"].(models.WorkspaceRole)
	if !role.Valid() {
		return fail(common.BadRequest("Invalid workspace role"))
	}
	membership, err := r.workspaceSvc.AddMember(p.Context, actor, workspaceID, stringArg(p, "email"), role)
	if err != nil {
		return fail(err)
	}
	return membership, nil
}

func (r *Resolver) removeWorkspaceMember(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	workspaceID, err := uuidArg(p, "workspaceId")
	if err != nil {
		return fail(err)
	}
	membership, err := r.workspaceSvc.RemoveMember(p.Context, actor, workspaceID, stringArg(p, "email"))
	if err != nil {
		return fail(err)
	}
	return membership, nil
}

func (r *Resolver) updateWorkspaceMemberRole(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	workspaceID, err := uuidArg(p, "workspaceId")
	if err != nil {
		return fail(err)
	}
	role, _ := p.Args["role"].(models.WorkspaceRole)
	if !role.Valid() {
		return fail(common.BadRequest("Invalid workspace role"))
	}
	membership, err := r.workspaceSvc.UpdateMemberRole(p.Context, actor, workspaceID, stringArg(p, "email"), role)
	if err != nil {
		return fail(err)
	}
	return membership, nil
}

func (r *Resolver) createProject(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	workspaceID, err := uuidArg(p, "workspaceId")
	if err != nil {
		return fail(err)
	}
	project, err := r.projectSvc.CreateProject(p.Context, actor, workspaceID,
		stringArg(p, "title"), optionalStringArg(p, "description"))
	if err != nil {
		return fail(err)
	}
	return project, nil
}

func (r *Resolver) getProjectByID(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	id, err := uuidArg(p, "id")
	if err != nil {
		return fail(err)
	}
	project, err := r.projectSvc.GetProjectByID(p.Context, actor, id)
	if err != nil {
		return fail(err)
	}
	return project, nil
}

func (r *Resolver) listProjects(p graphql.ResolveParams) (interface{}, error) {
	actor, err := requireUser(p.Context)
	if err != nil {
		return fail(err)
	}
	workspaceID, err := uuidArg(p, "workspaceId")
	if err != nil {
		return fail(err)
	}
	projects, err := r.projectSvc.ListProjects(p.Context, actor, workspaceID,
		intArg(p, "limit", 50), intArg(p, "offset", 0))
	if err != nil {
		return fail(err)
	}
	return projects, nil
}
