package authz

import (
	"slices"

	"collabhub/internal/common"
	"collabhub/internal/models"
)

// CheckUser is the global role gate. It denies when the user is absent, not
// ACTIVE, not holding one of requiredRoles, or when any extra condition is
// false. Banned users receive a distinguishable message from wrong-role
// users, but the same error kind.
func CheckUser(user *models.User, requiredRoles []models.UserRole, extraConditions ...bool) error {
	denied := user == nil ||
		user.Status != models.StatusActive ||
		!slices.Contains(requiredRoles, user.Role) ||
		slices.Contains(extraConditions, false)

	if !denied {
		return nil
	}

	if user != nil && user.Status == models.StatusBanned {
		return common.Unauthorized("Banned user, cannot access this request")
	}
	return common.Unauthorized("")
}

// AnyUser is the role set for operations open to every active user.
var AnyUser = []models.UserRole{models.RoleAdmin, models.RoleUser}

// AdminOnly is the role set for administrative operations.
var AdminOnly = []models.UserRole{models.RoleAdmin}
