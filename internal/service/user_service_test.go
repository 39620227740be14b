package service_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/audit"
	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/repository"
	"github.com/orazbekov/ratehub/internal/service"
	"github.com/orazbekov/ratehub/internal/testutil"
	"github.com/orazbekov/ratehub/pkg/logger"
)

type UserServiceTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	trail       *audit.Trail
	userService *service.UserService

	user  *models.User
	admin *models.User
}

func (s *UserServiceTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())

	trail, err := audit.NewTrail(filepath.Join(s.T().TempDir(), "moderation.log"))
	require.NoError(s.T(), err)
	s.trail = trail

	userRepo := repository.NewUserRepository(s.testDB.DB)
	s.userService = service.NewUserService(userRepo, trail)
}

func (s *UserServiceTestSuite) TearDownSuite() {
	s.trail.Close()
	s.testDB.Teardown(s.T())
}

func (s *UserServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	s.user = testutil.DefaultTestUser()
	s.admin = testutil.DefaultAdminUser()
	for _, u := range []*models.User{s.user, s.admin} {
		require.NoError(s.T(), s.testDB.DB.Create(u).Error)
	}
}

func (s *UserServiceTestSuite) TestCreate_AdminOnly() {
	_, err := s.userService.Create(asCaller(s.user), "newbie", "newbie@example.com", models.RoleUser)
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindForbidden))

	created, err := s.userService.Create(asCaller(s.admin), "newbie", "newbie@example.com", models.RoleModerator)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleModerator, created.Role)
}

func (s *UserServiceTestSuite) TestCreate_Conflicts() {
	_, err := s.userService.Create(asCaller(s.admin), s.user.Username, "fresh@example.com", models.RoleUser)
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindConflict))

	_, err = s.userService.Create(asCaller(s.admin), "fresh", s.user.Email, models.RoleUser)
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindConflict))
}

func (s *UserServiceTestSuite) TestUpdateMe_RoleIsReadOnly() {
	elevated := models.RoleAdmin
	bio := "about me"

	// A plain user may edit their profile, but the role value is dropped
	updated, err := s.userService.UpdateMe(asCaller(s.user), service.UserUpdate{
		Bio:  &bio,
		Role: &elevated,
	})
	require.NoError(s.T(), err, "A non-admin role value must be ignored, not rejected")
	assert.Equal(s.T(), "about me", updated.Bio)
	assert.Equal(s.T(), models.RoleUser, updated.Role)
}

func (s *UserServiceTestSuite) TestUpdate_AdminChangesRole() {
	promoted := models.RoleModerator

	_, err := s.userService.Update(asCaller(s.user), s.admin.Username, service.UserUpdate{Role: &promoted})
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindForbidden))

	updated, err := s.userService.Update(asCaller(s.admin), s.user.Username, service.UserUpdate{Role: &promoted})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleModerator, updated.Role)

	// Role changes are audited
	entries, err := s.trail.ReadAll()
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), entries)
	last := entries[len(entries)-1]
	assert.Equal(s.T(), "role_change", last.Action)
	assert.Equal(s.T(), s.user.Username, last.ResourceID)
}

func (s *UserServiceTestSuite) TestUpdate_UnknownRole() {
	bogus := models.Role("superuser")
	_, err := s.userService.Update(asCaller(s.admin), s.user.Username, service.UserUpdate{Role: &bogus})
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindValidation))
}

func (s *UserServiceTestSuite) TestDelete() {
	err := s.userService.Delete(asCaller(s.user), s.admin.Username)
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(s.T(), s.userService.Delete(asCaller(s.admin), s.user.Username))

	_, err = s.userService.GetByUsername(s.user.Username)
	require.Error(s.T(), err)
	assert.True(s.T(), apperr.IsKind(err, apperr.KindNotFound))
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
