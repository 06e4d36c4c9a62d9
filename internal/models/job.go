package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// JobPosting - вакансия работодателя
type JobPosting struct {
	BaseModel
	EmployerID  string `gorm:"not null;index" json:"employer_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`
	// Список требуемых навыков в нижнем регистре
	RequiredSkills  datatypes.JSON  `json:"required_skills,omitempty"`
	ExperienceLevel ExperienceLevel `gorm:"type:varchar(20);default:'intermediate'" json:"experience_level"`
	Location        string          `json:"location,omitempty"`
	Remote          bool            `gorm:"default:false" json:"remote"`
	SalaryMin       *float64        `json:"salary_min,omitempty"`
	SalaryMax       *float64        `json:"salary_max,omitempty"`
	Status          JobStatus       `gorm:"type:varchar(10);default:'draft';index" json:"status"`

	ViewsCount        int        `gorm:"default:0" json:"views_count"`
	ApplicationsCount int        `gorm:"default:0" json:"applications_count"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

// GetRequiredSkills декодирует JSON-колонку в срез строк
func (j *JobPosting) GetRequiredSkills() []string {
	if len(j.RequiredSkills) == 0 {
		return nil
	}
	var skills []string
	if err := json.Unmarshal(j.RequiredSkills, &skills); err != nil {
		return nil
	}
	return skills
}

// SetRequiredSkills нормализует навыки к нижнему регистру и кодирует в JSON
func (j *JobPosting) SetRequiredSkills(skills []string) error {
	normalized := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			normalized = append(normalized, s)
		}
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	j.RequiredSkills = data
	return nil
}

// IsAcceptingApplications - вакансия активна и не истекла
func (j *JobPosting) IsAcceptingApplications(now time.Time) bool {
	if j.Status != JobActive {
		return false
	}
	if j.ExpiresAt != nil && now.After(*j.ExpiresAt) {
		return false
	}
	return true
}

// Application - отклик соискателя на вакансию.
// Уникальность (job_id, learner_id) - составной индекс хранилища.
type Application struct {
	BaseModel
	JobID       string            `gorm:"not null;index;uniqueIndex:idx_application_job_learner" json:"job_id"`
	LearnerID   string            `gorm:"not null;index;uniqueIndex:idx_application_job_learner" json:"learner_id"`
	Status      ApplicationStatus `gorm:"type:varchar(15);default:'pending';index" json:"status"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	// Снимок match score на момент подачи
	MatchScore  *float64  `json:"match_score,omitempty"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
}
