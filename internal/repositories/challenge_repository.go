package repositories

import (
	"errors"
	"math/rand"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

var ErrChallengeNotFound = errors.New("challenge not found")

// ChallengeStats - количество заданий по навыкам и сложностям
type ChallengeStats struct {
	Total        int64            `json:"total"`
	BySkill      map[string]int64 `json:"by_skill"`
	ByDifficulty map[string]int64 `json:"by_difficulty"`
}

type ChallengeRepository interface {
	Create(challenge *models.Challenge) error
	FindByID(id string) (*models.Challenge, error)
	FindBySkill(skill string, activeOnly bool) ([]models.Challenge, error)
	FindAll(skill string, difficulty models.ChallengeDifficulty, activeOnly bool) ([]models.Challenge, error)
	FindRandomActive(skill string) (*models.Challenge, error)
	Search(query string) ([]models.Challenge, error)
	GetStats() (*ChallengeStats, error)
	Update(challenge *models.Challenge) error
	Deactivate(id string) error
	Delete(id string) error
}

type ChallengeRepositoryImpl struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &ChallengeRepositoryImpl{db: db}
}

func (r *ChallengeRepositoryImpl) Create(challenge *models.Challenge) error {
	return r.db.Create(challenge).Error
}

func (r *ChallengeRepositoryImpl) FindByID(id string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.First(&challenge, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepositoryImpl) FindBySkill(skill string, activeOnly bool) ([]models.Challenge, error) {
	var challenges []models.Challenge
	query := r.db.Where("skill = ?", skill)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("created_at DESC").Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepositoryImpl) FindAll(skill string, difficulty models.ChallengeDifficulty, activeOnly bool) ([]models.Challenge, error) {
	var challenges []models.Challenge
	query := r.db.Model(&models.Challenge{})
	if skill != "" {
		query = query.Where("skill = ?", skill)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("skill ASC, created_at DESC").Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepositoryImpl) Search(query string) ([]models.Challenge, error) {
	var challenges []models.Challenge
	search := "%" + query + "%"
	err := r.db.Where("active = ?", true).
		Where("title LIKE ? OR prompt LIKE ?", search, search).
		Order("created_at DESC").
		Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepositoryImpl) GetStats() (*ChallengeStats, error) {
	stats := &ChallengeStats{
		BySkill:      make(map[string]int64),
		ByDifficulty: make(map[string]int64),
	}

	if err := r.db.Model(&models.Challenge{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type row struct {
		Key   string
		Count int64
	}
	grouped := func(column string, dest map[string]int64) error {
		var rows []row
		err := r.db.Model(&models.Challenge{}).
			Select(column + " AS key, COUNT(*) AS count").
			Group(column).
			Find(&rows).Error
		if err != nil {
			return err
		}
		for _, rw := range rows {
			dest[rw.Key] = rw.Count
		}
		return nil
	}

	if err := grouped("skill", stats.BySkill); err != nil {
		return nil, err
	}
	if err := grouped("difficulty", stats.ByDifficulty); err != nil {
		return nil, err
	}
	return stats, nil
}

// FindRandomActive выбирает случайное активное задание по навыку.
// Выбор делается в приложении, чтобы не зависеть от RANDOM()/RAND().
func (r *ChallengeRepositoryImpl) FindRandomActive(skill string) (*models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.Where("skill = ? AND active = ?", skill, true).Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return nil, ErrChallengeNotFound
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &challenges[rnd.Intn(len(challenges))], nil
}

func (r *ChallengeRepositoryImpl) Update(challenge *models.Challenge) error {
	result := r.db.Model(challenge).Updates(map[string]interface{}{
		"title":          challenge.Title,
		"prompt":         challenge.Prompt,
		"difficulty":     challenge.Difficulty,
		"test_cases":     challenge.TestCases,
		"time_limit_min": challenge.TimeLimitMin,
		"active":         challenge.Active,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

func (r *ChallengeRepositoryImpl) Deactivate(id string) error {
	result := r.db.Model(&models.Challenge{}).Where("id = ?", id).Updates(map[string]interface{}{
		"active":     false,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

func (r *ChallengeRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Challenge{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChallengeNotFound
	}
	return nil
}
