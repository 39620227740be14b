package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/orazbekov/ratehub/internal/models"
)

func TestCatalogAndUserManagement_AdminOnly(t *testing.T) {
	assert.True(t, CanManageCatalog(models.RoleAdmin))
	assert.False(t, CanManageCatalog(models.RoleModerator))
	assert.False(t, CanManageCatalog(models.RoleUser))

	assert.True(t, CanManageUsers(models.RoleAdmin))
	assert.False(t, CanManageUsers(models.RoleModerator))
	assert.False(t, CanManageUsers(models.RoleUser))
}

func TestCanModerate_StaffOnly(t *testing.T) {
	assert.True(t, CanModerate(models.RoleAdmin))
	assert.True(t, CanModerate(models.RoleModerator))
	assert.False(t, CanModerate(models.RoleUser))
}

func TestCanMutateContent(t *testing.T) {
	author := uuid.New()
	stranger := uuid.New()

	cases := []struct {
		name   string
		role   models.Role
		caller uuid.UUID
		want   bool
	}{
		{"author_edits_own", models.RoleUser, author, true},
		{"user_edits_others", models.RoleUser, stranger, false},
		{"moderator_edits_others", models.RoleModerator, stranger, true},
		{"admin_edits_others", models.RoleAdmin, stranger, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanMutateContent(tc.role, author, tc.caller))
		})
	}
}

func TestCanChangeRole_AdminOnly(t *testing.T) {
	assert.True(t, CanChangeRole(models.RoleAdmin))
	assert.False(t, CanChangeRole(models.RoleModerator))
	assert.False(t, CanChangeRole(models.RoleUser))
}
