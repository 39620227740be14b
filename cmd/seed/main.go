package main

import (
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/orazbekov/ratehub/internal/config"
	"github.com/orazbekov/ratehub/internal/database"
	"github.com/orazbekov/ratehub/internal/models"
)

// Bootstraps the first admin account. The admin still obtains a
// confirmation code through the normal signup flow; signup with the same
// email/username pair resends the code without erroring.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")

	if adminUsername == "" || adminEmail == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL")
	}

	var admin models.User
	result := db.Where("email = ?", adminEmail).First(&admin)

	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
		log.Println("  Email:", admin.Email)
		return
	}

	admin = models.User{
		ID:       uuid.New(),
		Username: adminUsername,
		Email:    adminEmail,
		Role:     models.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully")
	log.Println("  Username:", admin.Username)
	log.Println("  Email:", admin.Email)
}
