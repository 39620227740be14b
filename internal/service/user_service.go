package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orazbekov/ratehub/internal/access"
	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/audit"
	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/repository"
	"github.com/orazbekov/ratehub/pkg/logger"
)

// Caller identifies the authenticated requester for permission checks.
type Caller struct {
	ID       uuid.UUID
	Username string
	Role     models.Role
}

// UserUpdate carries a partial profile update; nil fields are untouched.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

type UserService struct {
	userRepo *repository.UserRepository
	trail    *audit.Trail
}

func NewUserService(userRepo *repository.UserRepository, trail *audit.Trail) *UserService {
	return &UserService{
		userRepo: userRepo,
		trail:    trail,
	}
}

// List returns all users. Route-level admin gating applies.
func (s *UserService) List() ([]*models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	return users, nil
}

// Create registers a user on behalf of an admin. No confirmation code is
// issued; the user obtains one through signup, which is idempotent for an
// existing (email, username) pair.
func (s *UserService) Create(caller Caller, username, email string, role models.Role) (*models.User, error) {
	if !access.CanManageUsers(caller.Role) {
		return nil, apperr.Forbidden("admin role required")
	}
	if err := validateSignupInput(email, username); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation("unknown role")
	}

	existing, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, apperr.Internal("failed to check username", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("username already taken")
	}
	existing, err = s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, apperr.Internal("failed to check email", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	logger.Log.Info("User created by admin",
		zap.String("admin", caller.Username),
		zap.String("username", username),
		zap.String("role", string(role)),
	)

	return user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// Update applies a partial update to another user's profile. Admin only;
// role changes are recorded in the audit trail.
func (s *UserService) Update(caller Caller, username string, update UserUpdate) (*models.User, error) {
	if !access.CanManageUsers(caller.Role) {
		return nil, apperr.Forbidden("admin role required")
	}

	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	return s.apply(caller, user, update, true)
}

func (s *UserService) Delete(caller Caller, username string) error {
	if !access.CanManageUsers(caller.Role) {
		return apperr.Forbidden("admin role required")
	}

	user, err := s.GetByUsername(username)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return apperr.Internal("failed to delete user", err)
	}

	logger.Log.Info("User deleted",
		zap.String("admin", caller.Username),
		zap.String("username", username),
	)

	return nil
}

// GetMe returns the caller's own profile.
func (s *UserService) GetMe(caller Caller) (*models.User, error) {
	user, err := s.userRepo.GetByID(caller.ID)
	if err != nil {
		return nil, apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateMe applies a partial update to the caller's own profile. The role
// field is read-only unless the caller is an admin; non-admin role values
// are dropped silently, mirroring a read-only serializer field.
func (s *UserService) UpdateMe(caller Caller, update UserUpdate) (*models.User, error) {
	user, err := s.GetMe(caller)
	if err != nil {
		return nil, err
	}

	return s.apply(caller, user, update, access.CanChangeRole(caller.Role))
}

func (s *UserService) apply(caller Caller, user *models.User, update UserUpdate, allowRole bool) (*models.User, error) {
	if update.Email != nil {
		if !emailRegex.MatchString(*update.Email) {
			return nil, apperr.Validation("invalid email format")
		}
		user.Email = *update.Email
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}

	roleChanged := false
	if update.Role != nil && allowRole && *update.Role != user.Role {
		if !update.Role.Valid() {
			return nil, apperr.Validation("unknown role")
		}
		user.Role = *update.Role
		roleChanged = true
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}

	if roleChanged && s.trail != nil {
		entry := audit.Entry{
			Actor:      caller.Username,
			Role:       caller.Role,
			Action:     "role_change",
			Resource:   "user",
			ResourceID: user.Username,
		}
		if err := s.trail.Record(entry); err != nil {
			logger.Log.Error("Failed to record role change",
				zap.String("username", user.Username),
				zap.Error(err),
			)
		}
	}

	return user, nil
}
