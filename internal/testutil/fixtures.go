package testutil

import (
	"github.com/google/uuid"

	"github.com/orazbekov/ratehub/internal/models"
)

// CreateTestUser builds a user with the given role. The confirmation hash
// is left empty; auth tests issue real codes through the service.
func CreateTestUser(username, email string, role models.Role) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Role:     role,
	}
}

// DefaultTestUser returns a plain user
func DefaultTestUser() *models.User {
	return CreateTestUser("testuser", "test@example.com", models.RoleUser)
}

// DefaultModerator returns a moderator user
func DefaultModerator() *models.User {
	return CreateTestUser("testmod", "mod@example.com", models.RoleModerator)
}

// DefaultAdminUser returns an admin user
func DefaultAdminUser() *models.User {
	return CreateTestUser("admin", "admin@example.com", models.RoleAdmin)
}

// CreateTestTitle builds a title without category or genres
func CreateTestTitle(name string, year int) *models.Title {
	return &models.Title{
		Name: name,
		Year: year,
	}
}

// CreateTestReview builds a review for direct persistence in fixtures
func CreateTestReview(titleID uint, authorID uuid.UUID, score int, text string) *models.Review {
	return &models.Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Score:    score,
		Text:     text,
	}
}
