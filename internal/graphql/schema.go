package graphql

import (
	"github.com/graphql-go/graphql"

	"collabhub/internal/models"
)

// authPayload is the mutation result for login and refreshToken. The refresh
// token is included here for non-browser clients; browsers use the REST
// endpoints and the httpOnly cookie instead.
type authPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

var userRoleEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "UserRole",
	Values: graphql.EnumValueConfigMap{
		"ADMIN": &graphql.EnumValueConfig{Value: models.RoleAdmin},
		"USER":  &graphql.EnumValueConfig{Value: models.RoleUser},
	},
})

var userStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "UserStatus",
	Values: graphql.EnumValueConfigMap{
		"ACTIVE": &graphql.EnumValueConfig{Value: models.StatusActive},
		"BANNED": &graphql.EnumValueConfig{Value: models.StatusBanned},
	},
})

var workspaceRoleEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "WorkspaceRole",
	Values: graphql.EnumValueConfigMap{
		"OWNER":  &graphql.EnumValueConfig{Value: models.WorkspaceOwner},
		"MEMBER": &graphql.EnumValueConfig{Value: models.WorkspaceMember},
		"VIEWER": &graphql.EnumValueConfig{Value: models.WorkspaceViewer},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"role":       &graphql.Field{Type: graphql.NewNonNull(userRoleEnum)},
		"status":     &graphql.Field{Type: graphql.NewNonNull(userStatusEnum)},
		"created_at": &graphql.Field{Type: graphql.DateTime},
		"updated_at": &graphql.Field{Type: graphql.DateTime},
	},
})

var workspaceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Workspace",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"created_by":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"created_at":  &graphql.Field{Type: graphql.DateTime},
		"updated_at":  &graphql.Field{Type: graphql.DateTime},
	},
})

var membershipType = graphql.NewObject(graphql.ObjectConfig{
	Name: "WorkspaceMembership",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"workspace_id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"user_id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"role":         &graphql.Field{Type: graphql.NewNonNull(workspaceRoleEnum)},
		"created_at":   &graphql.Field{Type: graphql.DateTime},
		"updated_at":   &graphql.Field{Type: graphql.DateTime},
	},
})

var projectType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Project",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":  &graphql.Field{Type: graphql.String},
		"workspace_id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"created_by":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"created_at":   &graphql.Field{Type: graphql.DateTime},
		"updated_at":   &graphql.Field{Type: graphql.DateTime},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"access_token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"refresh_token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user":          &graphql.Field{Type: userType},
	},
})

func nonNullString() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
}

func nonNullID() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
}

func optionalString() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.String}
}

func pagingArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
		"offset": &graphql.ArgumentConfig{Type: graphql.Int},
	}
}

// NewSchema assembles the executable schema over the resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.me,
			},
			"getUserById": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"userId": nonNullID()},
				Resolve: r.getUserByID,
			},
			"listUsers": &graphql.Field{
				Type:    graphql.NewList(userType),
				Args:    pagingArgs(),
				Resolve: r.listUsers,
			},
			"getWorkspace": &graphql.Field{
				Type:    workspaceType,
				Args:    graphql.FieldConfigArgument{"id": nonNullID()},
				Resolve: r.getWorkspace,
			},
			"getAllWorkspaces": &graphql.Field{
				Type:    graphql.NewList(workspaceType),
				Args:    pagingArgs(),
				Resolve: r.getAllWorkspaces,
			},
			"getProjectById": &graphql.Field{
				Type:    projectType,
				Args:    graphql.FieldConfigArgument{"id": nonNullID()},
				Resolve: r.getProjectByID,
			},
			"listProjects": &graphql.Field{
				Type: graphql.NewList(projectType),
				Args: graphql.FieldConfigArgument{
					"workspaceId": nonNullID(),
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int},
					"offset":      &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.listProjects,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    nonNullString(),
					"password": nonNullString(),
				},
				Resolve: r.login,
			},
			"refreshToken": &graphql.Field{
				Type:    authPayloadType,
				Args:    graphql.FieldConfigArgument{"refreshToken": nonNullString()},
				Resolve: r.refreshToken,
			},
			"registerUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"name":     nonNullString(),
					"email":    nonNullString(),
					"password": nonNullString(),
				},
				Resolve: r.registerUser,
			},
			"forgotPassword": &graphql.Field{
				Type:    graphql.Boolean,
				Args:    graphql.FieldConfigArgument{"email": nonNullString()},
				Resolve: r.forgotPassword,
			},
			"resetPassword": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"token":       nonNullString(),
					"newPassword": nonNullString(),
				},
				Resolve: r.resetPassword,
			},
			"updateUserStatus": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"email":  nonNullString(),
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userStatusEnum)},
				},
				Resolve: r.updateUserStatus,
			},
			"adminResetPassword": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"email":       nonNullString(),
					"newPassword": nonNullString(),
				},
				Resolve: r.adminResetPassword,
			},
			"createWorkspace": &graphql.Field{
				Type: workspaceType,
				Args: graphql.FieldConfigArgument{
					"name":        nonNullString(),
					"description": optionalString(),
				},
				Resolve: r.createWorkspace,
			},
			"addWorkspaceMember": &graphql.Field{
				Type: membershipType,
				Args: graphql.FieldConfigArgument{
					"workspaceId": nonNullID(),
					"email":       nonNullString(),
					"role":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(workspaceRoleEnum)},
				},
				Resolve: r.addWorkspaceMember,
			},
			"removeWorkspaceMember": &graphql.Field{
				Type: membershipType,
				Args: graphql.FieldConfigArgument{
					"workspaceId": nonNullID(),
					"email":       nonNullString(),
				},
				Resolve: r.removeWorkspaceMember,
			},
			"updateWorkspaceMemberRole": &graphql.Field{
				Type: membershipType,
				Args: graphql.FieldConfigArgument{
					"workspaceId": nonNullID(),
					"email":       nonNullString(),
					"role":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(workspaceRoleEnum)},
				},
				Resolve: r.updateWorkspaceMemberRole,
			},
			"createProject": &graphql.Field{
				Type: projectType,
				Args: graphql.FieldConfigArgument{
					"workspaceId": nonNullID(),
					"title":       nonNullString(),
					"description": optionalString(),
				},
				Resolve: r.createProject,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
