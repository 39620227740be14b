// Package access maps (caller role, resource, action) to allow/deny.
// It runs before any admission logic; denials are distinct from not-found.
package access

import (
	"github.com/google/uuid"

	"github.com/orazbekov/ratehub/internal/models"
)

// CanManageCatalog reports whether role may create or delete categories,
// genres and titles. Reads are open to everyone, including anonymous.
func CanManageCatalog(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanManageUsers reports whether role may list, create, edit or delete
// arbitrary user accounts.
func CanManageUsers(role models.Role) bool {
	return role == models.RoleAdmin
}

// CanModerate reports whether role may edit or delete content authored
// by someone else. This is the one place where moderator outranks user.
func CanModerate(role models.Role) bool {
	return role == models.RoleModerator || role == models.RoleAdmin
}

// CanMutateContent reports whether a caller may edit or delete a review
// or comment: the author always can, staff can for anyone.
func CanMutateContent(role models.Role, authorID, callerID uuid.UUID) bool {
	return authorID == callerID || CanModerate(role)
}

// CanChangeRole reports whether role may assign roles, including on the
// caller's own profile. The role field is read-only for everyone else.
func CanChangeRole(role models.Role) bool {
	return role == models.RoleAdmin
}
