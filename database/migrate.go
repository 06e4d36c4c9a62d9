package database

import (
	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.LearnerProfile{},
		&models.EmployerProfile{},
		&models.Vendor{},
		&models.Procurement{},
		&models.Document{},
		&models.Bid{},
		&models.Evaluation{},
		&models.Anomaly{},
		&models.Challenge{},
		&models.SkillAssessment{},
		&models.VerifiedSkill{},
		&models.JobPosting{},
		&models.Application{},
		&models.AuditLog{},
		&models.RequestLog{},
	)
}
