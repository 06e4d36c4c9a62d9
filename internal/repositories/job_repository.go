package repositories

import (
	"errors"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrJobNotFound              = errors.New("job posting not found")
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already submitted for this job")
)

type JobFilter struct {
	EmployerID      string
	Status          models.JobStatus
	Skill           string
	ExperienceLevel models.ExperienceLevel
	Location        string
	Remote          *bool
	Search          string
	Page            int
	PageSize        int
}

// EmployerJobStats - сводка по вакансиям одного работодателя
type EmployerJobStats struct {
	TotalPostings     int64            `json:"total_postings"`
	ByStatus          map[string]int64 `json:"by_status"`
	TotalViews        int64            `json:"total_views"`
	TotalApplications int64            `json:"total_applications"`
}

type JobRepository interface {
	Create(job *models.JobPosting) error
	FindByID(id string) (*models.JobPosting, error)
	Update(job *models.JobPosting) error
	UpdateStatus(id string, status models.JobStatus) error
	Delete(id string) error
	FindWithFilter(criteria JobFilter) ([]models.JobPosting, int64, error)
	FindActive() ([]models.JobPosting, error)
	IncrementViews(id string) error
	IncrementApplications(id string) error
	ExpireOverdue() (int64, error)
	CountByStatus() (map[string]int64, error)
	StatsByEmployer(employerID string) (*EmployerJobStats, error)

	// Applications
	CreateApplication(application *models.Application) error
	FindApplicationByID(id string) (*models.Application, error)
	FindApplicationsByJob(jobID string, page, pageSize int) ([]models.Application, int64, error)
	FindApplicationsByLearner(learnerID string, page, pageSize int) ([]models.Application, int64, error)
	UpdateApplicationStatus(id string, status models.ApplicationStatus) error
	CountApplicationsByStatus(jobID string) (map[string]int64, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(job *models.JobPosting) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.JobPosting, error) {
	var job models.JobPosting
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(job *models.JobPosting) error {
	result := r.db.Model(job).Updates(map[string]interface{}{
		"title":            job.Title,
		"description":      job.Description,
		"required_skills":  job.RequiredSkills,
		"experience_level": job.ExperienceLevel,
		"location":         job.Location,
		"remote":           job.Remote,
		"salary_min":       job.SalaryMin,
		"salary_max":       job.SalaryMax,
		"expires_at":       job.ExpiresAt,
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) UpdateStatus(id string, status models.JobStatus) error {
	result := r.db.Model(&models.JobPosting{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.JobPosting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) FindWithFilter(criteria JobFilter) ([]models.JobPosting, int64, error) {
	var jobs []models.JobPosting
	query := r.db.Model(&models.JobPosting{})

	if criteria.EmployerID != "" {
		query = query.Where("employer_id = ?", criteria.EmployerID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Skill != "" {
		// required_skills хранится как JSON-массив строк
		query = query.Where("required_skills LIKE ?", "%\""+criteria.Skill+"\"%")
	}
	if criteria.ExperienceLevel != "" {
		query = query.Where("experience_level = ?", criteria.ExperienceLevel)
	}
	if criteria.Location != "" {
		query = query.Where("location LIKE ?", "%"+criteria.Location+"%")
	}
	if criteria.Remote != nil {
		query = query.Where("remote = ?", *criteria.Remote)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) FindActive() ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := r.db.Where("status = ?", models.JobActive).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) IncrementViews(id string) error {
	return r.db.Model(&models.JobPosting{}).Where("id = ?", id).
		Update("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *JobRepositoryImpl) IncrementApplications(id string) error {
	return r.db.Model(&models.JobPosting{}).Where("id = ?", id).
		Update("applications_count", gorm.Expr("applications_count + 1")).Error
}

// ExpireOverdue переводит активные вакансии с истекшим сроком в expired
func (r *JobRepositoryImpl) ExpireOverdue() (int64, error) {
	result := r.db.Model(&models.JobPosting{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.JobActive, time.Now()).
		Updates(map[string]interface{}{
			"status":     models.JobExpired,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *JobRepositoryImpl) CountByStatus() (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.JobPosting{}).
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

func (r *JobRepositoryImpl) StatsByEmployer(employerID string) (*EmployerJobStats, error) {
	stats := &EmployerJobStats{ByStatus: make(map[string]int64)}

	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.JobPosting{}).
		Select("status AS key, COUNT(*) AS count").
		Where("employer_id = ?", employerID).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		stats.ByStatus[rw.Key] = rw.Count
		stats.TotalPostings += rw.Count
	}

	type sums struct {
		Views        int64
		Applications int64
	}
	var totals sums
	err = r.db.Model(&models.JobPosting{}).
		Select("COALESCE(SUM(views_count),0) AS views, COALESCE(SUM(applications_count),0) AS applications").
		Where("employer_id = ?", employerID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalViews = totals.Views
	stats.TotalApplications = totals.Applications
	return stats, nil
}

func (r *JobRepositoryImpl) CreateApplication(application *models.Application) error {
	err := r.db.Create(application).Error
	if err != nil && isDuplicateKeyError(err) {
		return ErrApplicationAlreadyExists
	}
	return err
}

func (r *JobRepositoryImpl) FindApplicationByID(id string) (*models.Application, error) {
	var application models.Application
	err := r.db.First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *JobRepositoryImpl) FindApplicationsByJob(jobID string, page, pageSize int) ([]models.Application, int64, error) {
	var applications []models.Application
	query := r.db.Model(&models.Application{}).Where("job_id = ?", jobID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("match_score DESC, submitted_at ASC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&applications).Error
	return applications, total, err
}

func (r *JobRepositoryImpl) FindApplicationsByLearner(learnerID string, page, pageSize int) ([]models.Application, int64, error) {
	var applications []models.Application
	query := r.db.Model(&models.Application{}).Where("learner_id = ?", learnerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("submitted_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&applications).Error
	return applications, total, err
}

func (r *JobRepositoryImpl) UpdateApplicationStatus(id string, status models.ApplicationStatus) error {
	result := r.db.Model(&models.Application{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) CountApplicationsByStatus(jobID string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.Application{}).
		Select("status AS key, COUNT(*) AS count").
		Where("job_id = ?", jobID).
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
