package repositories

import (
	"errors"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type LearnerSearchCriteria struct {
	Skill           string
	MinScore        float64
	ExperienceLevel models.ExperienceLevel
	Location        string
	Page            int
	PageSize        int
}

type ProfileRepository interface {
	CreateLearnerProfile(profile *models.LearnerProfile) error
	CreateEmployerProfile(profile *models.EmployerProfile) error
	FindLearnerProfileByUserID(userID string) (*models.LearnerProfile, error)
	FindEmployerProfileByUserID(userID string) (*models.EmployerProfile, error)
	UpdateLearnerProfile(profile *models.LearnerProfile) error
	UpdateEmployerProfile(profile *models.EmployerProfile) error
	SearchLearners(criteria LearnerSearchCriteria) ([]models.LearnerProfile, int64, error)
	CountLearnersByExperience() (map[string]int64, error)
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) CreateLearnerProfile(profile *models.LearnerProfile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) CreateEmployerProfile(profile *models.EmployerProfile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindLearnerProfileByUserID(userID string) (*models.LearnerProfile, error) {
	var profile models.LearnerProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindEmployerProfileByUserID(userID string) (*models.EmployerProfile, error) {
	var profile models.EmployerProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateLearnerProfile(profile *models.LearnerProfile) error {
	result := r.db.Model(profile).Updates(map[string]interface{}{
		"bio":                profile.Bio,
		"experience_level":   profile.ExperienceLevel,
		"location":           profile.Location,
		"education":          profile.Education,
		"links":              profile.Links,
		"employment_history": profile.EmploymentHistory,
		"updated_at":         time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) UpdateEmployerProfile(profile *models.EmployerProfile) error {
	result := r.db.Model(profile).Updates(map[string]interface{}{
		"company_name": profile.CompanyName,
		"industry":     profile.Industry,
		"website":      profile.Website,
		"description":  profile.Description,
		"updated_at":   time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SearchLearners ищет соискателей по навыку и порогу балла через join
// с verified_skills; просроченные кредиты не учитываются.
func (r *ProfileRepositoryImpl) SearchLearners(criteria LearnerSearchCriteria) ([]models.LearnerProfile, int64, error) {
	var profiles []models.LearnerProfile
	query := r.db.Model(&models.LearnerProfile{})

	if criteria.Skill != "" {
		query = query.
			Joins("JOIN verified_skills ON verified_skills.user_id = learner_profiles.user_id").
			Where("verified_skills.skill = ? AND verified_skills.active = ? AND verified_skills.expires_at > ?",
				criteria.Skill, true, time.Now())
		if criteria.MinScore > 0 {
			query = query.Where("verified_skills.score >= ?", criteria.MinScore)
		}
	}
	if criteria.ExperienceLevel != "" {
		query = query.Where("learner_profiles.experience_level = ?", criteria.ExperienceLevel)
	}
	if criteria.Location != "" {
		query = query.Where("learner_profiles.location LIKE ?", "%"+criteria.Location+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize
	err := query.Order("learner_profiles.created_at DESC").Limit(limit).Offset(offset).Find(&profiles).Error

	return profiles, total, err
}

func (r *ProfileRepositoryImpl) CountLearnersByExperience() (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.LearnerProfile{}).
		Select("experience_level AS key, COUNT(*) AS count").
		Group("experience_level").
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
