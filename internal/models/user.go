package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a closed enumeration. Permission decisions live in the access
// package; the model only knows which values exist.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Role     Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	// Argon2id hash of the last confirmation code issued at signup.
	// The plaintext code only ever travels through the mailer.
	ConfirmationHash string `gorm:"type:varchar(255)" json:"-"`

	Bio       string    `gorm:"type:text" json:"bio"`
	FirstName string    `gorm:"type:varchar(150)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(150)" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
