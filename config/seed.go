package config

import (
	"fmt"

	"hotel-admin/models"
	"hotel-admin/permissions"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDatabase creates the initial admin account when no admin exists yet.
func SeedDatabase(db *gorm.DB, email, password string) error {
	var adminCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	admin := models.User{
		Email:        email,
		DisplayName:  "Admin User",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
		Permissions:  permissions.DefaultStored(true).Map(),
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	log.Info().Str("email", email).Msg("Default admin seeded")
	return nil
}
