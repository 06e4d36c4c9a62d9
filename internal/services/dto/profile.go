package dto

import (
	"time"

	"procurechain_backend/internal/models"
)

type UpdateLearnerProfileRequest struct {
	Bio             string   `json:"bio" validate:"omitempty,max=2000"`
	ExperienceLevel string   `json:"experience_level" validate:"omitempty,is-experience-level"`
	Location        string   `json:"location" validate:"omitempty,max=120"`
	Education       string   `json:"education" validate:"omitempty,max=500"`
	Links           []string `json:"links" validate:"omitempty,dive,url"`
}

type UpdateEmployerProfileRequest struct {
	CompanyName string `json:"company_name" validate:"omitempty,min=2,max=150"`
	Industry    string `json:"industry" validate:"omitempty,max=100"`
	Website     string `json:"website" validate:"omitempty,url"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type AddEmploymentRequest struct {
	Company     string `json:"company" validate:"required,min=2,max=150"`
	Title       string `json:"title" validate:"required,min=2,max=150"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

type SkillSummary struct {
	Skill      string    `json:"skill"`
	Score      float64   `json:"score"`
	VerifiedAt time.Time `json:"verified_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Active     bool      `json:"active"`
}

type ProfileResponse struct {
	User     models.SafeUser `json:"user"`
	Learner  interface{}     `json:"learner_profile,omitempty"`
	Employer interface{}     `json:"employer_profile,omitempty"`
	Skills   []SkillSummary  `json:"skills,omitempty"`
}

type CompletenessResponse struct {
	Percentage    float64  `json:"percentage"`
	FilledFields  []string `json:"filled_fields"`
	MissingFields []string `json:"missing_fields"`
}

type SearchLearnersRequest struct {
	Skill           string  `form:"skill" validate:"omitempty,is-skill"`
	MinScore        float64 `form:"min_score" validate:"omitempty,gte=0,lte=100"`
	ExperienceLevel string  `form:"experience_level" validate:"omitempty,is-experience-level"`
	Location        string  `form:"location"`
	Page            int     `form:"page"`
	PageSize        int     `form:"page_size"`
}

type ProfileStatsResponse struct {
	LearnersByExperience map[string]int64 `json:"learners_by_experience"`
	VerifiedBySkill      map[string]int64 `json:"verified_by_skill"`
}
