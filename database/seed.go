package database

import (
	"errors"
	"fmt"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/config"
	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

// SeedAdmin создает первого администратора из конфига.
// Повторный запуск ничего не делает.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("admin email or password is not configured, skipping admin seeding")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var admin models.User
	result := tx.Where("email = ?", adminEmail).First(&admin)
	if result.Error == nil {
		logger.Info("admin user already exists, skipping creation", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	fullName := cfg.Admin.FullName
	if fullName == "" {
		fullName = "Platform Administrator"
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := tx.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("first admin user created", "email", adminEmail)
	return tx.Commit().Error
}
