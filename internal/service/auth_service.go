package service

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orazbekov/ratehub/internal/apperr"
	"github.com/orazbekov/ratehub/internal/mailer"
	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/repository"
	"github.com/orazbekov/ratehub/internal/utils"
	"github.com/orazbekov/ratehub/pkg/logger"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

// "me" is the path segment for the caller's own profile, so it can never
// be a username.
const reservedUsername = "me"

const confirmationSubject = "Your ratehub confirmation code"

type AuthService struct {
	userRepo  *repository.UserRepository
	mailer    mailer.Mailer
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, m mailer.Mailer, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		mailer:    m,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Signup registers a user and dispatches a confirmation code. Repeating a
// signup with the same (email, username) pair regenerates and resends the
// code instead of erroring.
func (s *AuthService) Signup(email, username string) (*models.User, error) {
	logger.Log.Debug("Processing signup",
		zap.String("username", username),
		zap.String("email", email),
	)

	if err := validateSignupInput(email, username); err != nil {
		logger.Log.Warn("Signup validation failed",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	byUsername, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, apperr.Internal("failed to check username", err)
	}
	byEmail, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, apperr.Internal("failed to check email", err)
	}

	// Same pair again: resend a fresh code.
	if byUsername != nil && byUsername.Email == email {
		return s.reissueCode(byUsername)
	}
	if byUsername != nil {
		return nil, apperr.Conflict("username already taken")
	}
	if byEmail != nil {
		return nil, apperr.Conflict("email already registered")
	}

	code, err := utils.GenerateConfirmationCode()
	if err != nil {
		return nil, apperr.Internal("failed to generate confirmation code", err)
	}
	codeHash, err := utils.HashCode(code)
	if err != nil {
		return nil, apperr.Internal("failed to hash confirmation code", err)
	}

	user := &models.User{
		ID:               uuid.New(),
		Username:         username,
		Email:            email,
		Role:             models.RoleUser,
		ConfirmationHash: codeHash,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Log.Error("Failed to create user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, apperr.Internal("failed to create user", err)
	}

	if err := s.sendCode(user, code); err != nil {
		return nil, err
	}

	logger.Log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
	)

	return user, nil
}

// reissueCode regenerates the confirmation code for an existing user and
// resends it. The previous code stops working.
func (s *AuthService) reissueCode(user *models.User) (*models.User, error) {
	code, err := utils.GenerateConfirmationCode()
	if err != nil {
		return nil, apperr.Internal("failed to generate confirmation code", err)
	}
	codeHash, err := utils.HashCode(code)
	if err != nil {
		return nil, apperr.Internal("failed to hash confirmation code", err)
	}

	user.ConfirmationHash = codeHash
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Internal("failed to store confirmation code", err)
	}

	if err := s.sendCode(user, code); err != nil {
		return nil, err
	}

	logger.Log.Info("Confirmation code reissued",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return user, nil
}

func (s *AuthService) sendCode(user *models.User, code string) error {
	body := fmt.Sprintf(
		"Hello, %s.\nYour confirmation code for API access: %s",
		user.Username, code,
	)
	if err := s.mailer.Send(user.Email, confirmationSubject, body); err != nil {
		// Dispatch is synchronous with no retry; a delivery failure fails
		// the signup request.
		return apperr.Internal("failed to send confirmation code", err)
	}
	return nil
}

// ExchangeToken trades a confirmation code for an access token. The code is
// compared, not invalidated; it remains usable until the next signup.
func (s *AuthService) ExchangeToken(username, code string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		logger.Log.Warn("Token exchange for unknown user",
			zap.String("username", username),
		)
		return "", apperr.NotFound("user not found")
	}

	if user.ConfirmationHash == "" {
		return "", apperr.Unauthenticated("invalid confirmation code")
	}

	ok, err := utils.VerifyCode(code, user.ConfirmationHash)
	if err != nil {
		return "", apperr.Internal("failed to verify confirmation code", err)
	}
	if !ok {
		logger.Log.Warn("Token exchange with bad confirmation code",
			zap.String("username", username),
		)
		return "", apperr.Unauthenticated("invalid confirmation code")
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return "", apperr.Internal("failed to generate token", err)
	}

	logger.Log.Info("Token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return token, nil
}

func validateSignupInput(email, username string) error {
	if username == "" {
		return apperr.Validation("username is required")
	}
	if username == reservedUsername {
		return apperr.Validation("username 'me' is reserved")
	}
	if len(username) > 150 {
		return apperr.Validation("username must be at most 150 characters")
	}
	if !usernameRegex.MatchString(username) {
		return apperr.Validation("username contains invalid characters")
	}
	if !emailRegex.MatchString(email) {
		return apperr.Validation("invalid email format")
	}
	if len(email) > 254 {
		return apperr.Validation("email too long")
	}
	return nil
}
