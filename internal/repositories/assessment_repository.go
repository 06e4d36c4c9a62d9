package repositories

import (
	"errors"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAssessmentNotFound    = errors.New("assessment not found")
	ErrVerifiedSkillNotFound = errors.New("verified skill not found")
)

type AssessmentFilter struct {
	UserID   string
	Skill    string
	Status   models.AssessmentStatus
	Page     int
	PageSize int
}

// SkillAttemptStats - сводка попыток по одному навыку
type SkillAttemptStats struct {
	Attempts     int64
	Completions  int64
	AverageScore float64
}

type AssessmentRepository interface {
	Create(assessment *models.SkillAssessment) error
	FindByID(id string) (*models.SkillAssessment, error)
	FindActiveByUserAndSkill(userID, skill string) (*models.SkillAssessment, error)
	FindByUser(userID string, page, pageSize int) ([]models.SkillAssessment, int64, error)
	FindWithFilter(criteria AssessmentFilter) ([]models.SkillAssessment, int64, error)
	Update(assessment *models.SkillAssessment) error
	CountByStatus() (map[string]int64, error)
	CountByChallenge(challengeID string) (int64, error)
	SkillStats(skill string) (*SkillAttemptStats, error)

	// Verified skills
	UpsertVerifiedSkill(skill *models.VerifiedSkill) error
	FindVerifiedSkillsByUser(userID string) ([]models.VerifiedSkill, error)
	FindActiveVerifiedSkillsByUser(userID string) ([]models.VerifiedSkill, error)
	FindTopVerifiedBySkill(skill string, limit int) ([]models.VerifiedSkill, error)
	DeactivateExpiredSkills() (int64, error)
	CountVerifiedBySkill() (map[string]int64, error)
}

type AssessmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &AssessmentRepositoryImpl{db: db}
}

func (r *AssessmentRepositoryImpl) Create(assessment *models.SkillAssessment) error {
	return r.db.Create(assessment).Error
}

func (r *AssessmentRepositoryImpl) FindByID(id string) (*models.SkillAssessment, error) {
	var assessment models.SkillAssessment
	err := r.db.First(&assessment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentRepositoryImpl) FindActiveByUserAndSkill(userID, skill string) (*models.SkillAssessment, error) {
	var assessment models.SkillAssessment
	err := r.db.Where("user_id = ? AND skill = ? AND status = ?",
		userID, skill, models.AssessmentCreated).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentRepositoryImpl) FindByUser(userID string, page, pageSize int) ([]models.SkillAssessment, int64, error) {
	var assessments []models.SkillAssessment
	query := r.db.Model(&models.SkillAssessment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&assessments).Error
	return assessments, total, err
}

func (r *AssessmentRepositoryImpl) FindWithFilter(criteria AssessmentFilter) ([]models.SkillAssessment, int64, error) {
	var assessments []models.SkillAssessment
	query := r.db.Model(&models.SkillAssessment{})

	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Skill != "" {
		query = query.Where("skill = ?", criteria.Skill)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&assessments).Error
	return assessments, total, err
}

func (r *AssessmentRepositoryImpl) Update(assessment *models.SkillAssessment) error {
	return r.db.Save(assessment).Error
}

func (r *AssessmentRepositoryImpl) CountByStatus() (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.SkillAssessment{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.Key] = rw.Count
	}
	return result, nil
}

func (r *AssessmentRepositoryImpl) CountByChallenge(challengeID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.SkillAssessment{}).
		Where("challenge_id = ?", challengeID).
		Count(&count).Error
	return count, err
}

func (r *AssessmentRepositoryImpl) SkillStats(skill string) (*SkillAttemptStats, error) {
	stats := &SkillAttemptStats{}

	err := r.db.Model(&models.SkillAssessment{}).
		Where("skill = ?", skill).
		Count(&stats.Attempts).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&models.SkillAssessment{}).
		Where("skill = ? AND status = ?", skill, models.AssessmentCompleted).
		Count(&stats.Completions).Error
	if err != nil {
		return nil, err
	}

	var avg *float64
	err = r.db.Model(&models.SkillAssessment{}).
		Select("AVG(score)").
		Where("skill = ? AND status = ?", skill, models.AssessmentCompleted).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AverageScore = *avg
	}
	return stats, nil
}

// UpsertVerifiedSkill сохраняет кредит по навыку. Повторная верификация
// того же навыка обновляет существующую запись вместо вставки дубля.
func (r *AssessmentRepositoryImpl) UpsertVerifiedSkill(skill *models.VerifiedSkill) error {
	var existing models.VerifiedSkill
	err := r.db.Where("user_id = ? AND skill = ?", skill.UserID, skill.Skill).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(skill).Error
		}
		return err
	}

	result := r.db.Model(&existing).Updates(map[string]interface{}{
		"score":         skill.Score,
		"verified_at":   skill.VerifiedAt,
		"expires_at":    skill.ExpiresAt,
		"active":        true,
		"assessment_id": skill.AssessmentID,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	skill.ID = existing.ID
	return nil
}

func (r *AssessmentRepositoryImpl) FindVerifiedSkillsByUser(userID string) ([]models.VerifiedSkill, error) {
	var skills []models.VerifiedSkill
	err := r.db.Where("user_id = ?", userID).Order("verified_at DESC").Find(&skills).Error
	return skills, err
}

func (r *AssessmentRepositoryImpl) FindActiveVerifiedSkillsByUser(userID string) ([]models.VerifiedSkill, error) {
	var skills []models.VerifiedSkill
	err := r.db.Where("user_id = ? AND active = ? AND expires_at > ?", userID, true, time.Now()).
		Order("verified_at DESC").
		Find(&skills).Error
	return skills, err
}

func (r *AssessmentRepositoryImpl) FindTopVerifiedBySkill(skill string, limit int) ([]models.VerifiedSkill, error) {
	var skills []models.VerifiedSkill
	err := r.db.Where("skill = ? AND active = ? AND expires_at > ?", skill, true, time.Now()).
		Order("score DESC, verified_at ASC").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

// DeactivateExpiredSkills гасит просроченные кредиты. Вызывается
// периодической задачей.
func (r *AssessmentRepositoryImpl) DeactivateExpiredSkills() (int64, error) {
	result := r.db.Model(&models.VerifiedSkill{}).
		Where("active = ? AND expires_at <= ?", true, time.Now()).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *AssessmentRepositoryImpl) CountVerifiedBySkill() (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.VerifiedSkill{}).
		Select("skill AS key, COUNT(*) AS count").
		Where("active = ?", true).
		Group("skill").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.Key] = rw.Count
	}
	return result, nil
}
